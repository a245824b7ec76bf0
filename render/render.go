// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package render defines the native layer that the diorama convenience
packages wrap: a retained-mode scene [Graph] of handles (objects, cameras,
lights), the geometry and material resources they carry, and the [Renderer]
interface a GPU backend implements.

This package deliberately contains no rendering, geometry, or camera math:
those belong to the backend behind [Renderer]. The types here are the
bookkeeping contract between the wrappers in [scene] and whatever actually
draws. The [render/offscreen] backend implements Renderer headlessly and is
what the scene layer uses when no other backend is configured.

The Graph permits direct mutation outside the scene layer's tracking; that
escape hatch is reconciled by scene.Sync.
*/
package render

import "image"

// Canvas is the drawing surface a renderer presents into, attached to an
// externally-managed container (a DOM-shaped collaborator identified only
// by an opaque id string).
type Canvas interface {

	// Container returns the id of the container the canvas is attached to,
	// or "" once detached.
	Container() string

	// Attached reports whether the canvas is still attached to its container.
	Attached() bool

	// Detach removes the canvas from its container. Idempotent.
	Detach()
}

// Renderer is the contract a rendering backend implements. Each renderer
// is owned by exactly one scene and released during its disposal.
type Renderer interface {

	// Size returns the current output size in pixels.
	Size() image.Point

	// SetSize resizes the output surface.
	SetSize(sz image.Point)

	// Render draws one frame of the given graph through the given camera.
	Render(g *Graph, cam *CameraHandle) error

	// Canvas returns the renderer's drawing surface.
	Canvas() Canvas

	// Release frees the backend's resources. Idempotent; Render fails
	// afterward.
	Release() error
}
