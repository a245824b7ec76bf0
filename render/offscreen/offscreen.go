// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package offscreen implements a headless [render.Renderer]: no GPU, no
// window system, just bookkeeping. It is the default backend for scenes
// that do not configure another one, and what the package tests run
// against.
package offscreen

import (
	"image"
	"sync"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/render"
)

// DefaultSize is the surface size used when none is given.
var DefaultSize = image.Pt(800, 600)

// Renderer is a headless rendering backend. It counts frames and records
// the last drawn graph statistics instead of drawing.
type Renderer struct {
	mu       sync.Mutex
	size     image.Point
	canvas   *Canvas
	frames   int
	lastDraw int
	released bool
}

// New returns an offscreen renderer whose canvas is attached to the given
// container id, at the given size. A zero size gets [DefaultSize].
func New(container string, size image.Point) *Renderer {
	if size.X <= 0 || size.Y <= 0 {
		size = DefaultSize
	}
	return &Renderer{
		size:   size,
		canvas: &Canvas{container: container, attached: true},
	}
}

// Size returns the current output size in pixels.
func (rd *Renderer) Size() image.Point {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.size
}

// SetSize resizes the output surface. Non-positive sizes are ignored.
func (rd *Renderer) SetSize(sz image.Point) {
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	rd.mu.Lock()
	rd.size = sz
	rd.mu.Unlock()
}

// Render counts one frame of the given graph through the given camera.
func (rd *Renderer) Render(g *render.Graph, cam *render.CameraHandle) error {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.released {
		return errs.Disposed("offscreen.Render")
	}
	if g == nil || cam == nil {
		return errs.Validation("offscreen.Render", "graph and camera must be non-nil")
	}
	rd.frames++
	rd.lastDraw = g.Len()
	return nil
}

// Canvas returns the renderer's drawing surface.
func (rd *Renderer) Canvas() render.Canvas {
	return rd.canvas
}

// Release frees the renderer. Idempotent; Render fails afterward.
func (rd *Renderer) Release() error {
	rd.mu.Lock()
	rd.released = true
	rd.mu.Unlock()
	return nil
}

// Frames returns the number of frames rendered so far.
func (rd *Renderer) Frames() int {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.frames
}

// LastDrawCount returns the handle count of the most recently drawn graph.
func (rd *Renderer) LastDrawCount() int {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.lastDraw
}

// Canvas is the offscreen drawing surface.
type Canvas struct {
	mu        sync.Mutex
	container string
	attached  bool
}

// Container returns the id of the container the canvas is attached to,
// or "" once detached.
func (cv *Canvas) Container() string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if !cv.attached {
		return ""
	}
	return cv.container
}

// Attached reports whether the canvas is still attached to its container.
func (cv *Canvas) Attached() bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.attached
}

// Detach removes the canvas from its container. Idempotent.
func (cv *Canvas) Detach() {
	cv.mu.Lock()
	cv.attached = false
	cv.mu.Unlock()
}
