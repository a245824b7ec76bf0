// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
)

// Geometry is the interface for all native shape resources. A geometry is
// owned by exactly one [Object] at a time and must be released before being
// replaced, so backend buffers are not leaked.
type Geometry interface {

	// AsGeometryBase returns the [GeometryBase] for this geometry, which
	// provides the shared resource-lifecycle state.
	AsGeometryBase() *GeometryBase
}

// GeometryBase is the base geometry resource element.
type GeometryBase struct {
	released bool
}

func (gb *GeometryBase) AsGeometryBase() *GeometryBase {
	return gb
}

// Release frees the geometry's backend buffers. Idempotent.
func (gb *GeometryBase) Release() {
	gb.released = true
}

// Released reports whether the geometry has been released.
func (gb *GeometryBase) Released() bool {
	return gb.released
}

// BoxGeometry is a rectangular solid (cuboid).
type BoxGeometry struct {
	GeometryBase

	// Size along each dimension.
	Size math32.Vector3

	// Segs is the number of segments to divide each plane into
	// (enforced to be at least 1).
	Segs math32.Vector3i
}

// NewBoxGeometry returns a box geometry with the given size.
func NewBoxGeometry(width, height, depth float32) *BoxGeometry {
	bx := &BoxGeometry{}
	bx.Size.Set(width, height, depth)
	bx.Segs.Set(1, 1, 1)
	return bx
}

// SphereGeometry is a sphere.
type SphereGeometry struct {
	GeometryBase

	// Radius of the sphere.
	Radius float32

	// WidthSegs is the number of segments around the circumference
	// (longitude), at least 3.
	WidthSegs int

	// HeightSegs is the number of segments from pole to pole (latitude),
	// at least 2.
	HeightSegs int
}

// NewSphereGeometry returns a sphere geometry with the given radius and
// default segmentation.
func NewSphereGeometry(radius float32) *SphereGeometry {
	sp := &SphereGeometry{Radius: radius, WidthSegs: 32, HeightSegs: 16}
	return sp
}

// PlaneGeometry is a flat 2D plane.
type PlaneGeometry struct {
	GeometryBase

	// Size along the two plane dimensions.
	Size math32.Vector2

	// Segs is the number of segments to divide the plane into
	// (enforced to be at least 1).
	Segs math32.Vector2i
}

// NewPlaneGeometry returns a plane geometry with the given size.
func NewPlaneGeometry(width, height float32) *PlaneGeometry {
	pl := &PlaneGeometry{}
	pl.Size.Set(width, height)
	pl.Segs.Set(1, 1)
	return pl
}

// CylinderGeometry is a cylinder, optionally cone-shaped via differing
// top and bottom radii.
type CylinderGeometry struct {
	GeometryBase

	// TopRad and BotRad are the radii at the two ends.
	TopRad, BotRad float32

	// Height of the cylinder.
	Height float32

	// RadialSegs is the number of segments around the circumference,
	// at least 3.
	RadialSegs int
}

// NewCylinderGeometry returns a cylinder geometry with equal top and
// bottom radii.
func NewCylinderGeometry(radius, height float32) *CylinderGeometry {
	cy := &CylinderGeometry{TopRad: radius, BotRad: radius, Height: height, RadialSegs: 32}
	return cy
}
