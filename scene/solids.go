// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/render"
	"github.com/google/uuid"
)

// Node kind tags, used in serialized documents and for registry dispatch.
const (
	KindBox      = "box"
	KindSphere   = "sphere"
	KindPlane    = "plane"
	KindCylinder = "cylinder"

	// KindObject tags a raw native handle adopted by Sync, for which no
	// richer wrapper type is known.
	KindObject = "object"
)

func genName(kind string) string {
	return fmt.Sprintf("%s-%s", kind, uuid.NewString()[:8])
}

// Box is a rectangular cuboid mesh.
type Box struct {
	NodeBase

	// Size is the extent along each axis, always positive.
	Size math32.Vector3
}

// NewBox returns a box with the given positive dimensions.
func NewBox(width, height, depth float32) (*Box, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, errs.Validation("scene.NewBox", "dimensions must be positive, got (%g, %g, %g)", width, height, depth)
	}
	bx := &Box{Size: math32.Vec3(width, height, depth)}
	bx.initHandle(genName(KindBox), render.NewBoxGeometry(width, height, depth))
	return bx, nil
}

func (bx *Box) Kind() string { return KindBox }

// SetSize replaces the box geometry with one of the given positive
// dimensions, releasing the old geometry first.
func (bx *Box) SetSize(width, height, depth float32) error {
	if bx.disposed {
		return errs.Disposed("box.SetSize")
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return errs.Validation("box.SetSize", "dimensions must be positive, got (%g, %g, %g)", width, height, depth)
	}
	old := bx.Size
	bx.swapGeometry(render.NewBoxGeometry(width, height, depth))
	bx.Size = math32.Vec3(width, height, depth)
	bx.emit(ObjectDimensionChangedEvent, &Change[math32.Vector3]{Old: old, New: bx.Size})
	return nil
}

// Sphere is a UV sphere mesh.
type Sphere struct {
	NodeBase

	// Radius is the sphere radius, always positive.
	Radius float32

	// WidthSegs and HeightSegs are the mesh segmentation.
	WidthSegs, HeightSegs int
}

// NewSphere returns a sphere with the given positive radius and default
// segmentation.
func NewSphere(radius float32) (*Sphere, error) {
	if radius <= 0 {
		return nil, errs.Validation("scene.NewSphere", "radius must be positive, got %g", radius)
	}
	geom := render.NewSphereGeometry(radius)
	sp := &Sphere{Radius: radius, WidthSegs: geom.WidthSegs, HeightSegs: geom.HeightSegs}
	sp.initHandle(genName(KindSphere), geom)
	return sp, nil
}

// SetSegs replaces the sphere geometry with one of the given
// segmentation: at least 3 around the circumference and 2 from pole to
// pole.
func (sp *Sphere) SetSegs(widthSegs, heightSegs int) error {
	if sp.disposed {
		return errs.Disposed("sphere.SetSegs")
	}
	if widthSegs < 3 || heightSegs < 2 {
		return errs.Validation("sphere.SetSegs", "segmentation must be at least 3x2, got %dx%d", widthSegs, heightSegs)
	}
	old := math32.Vector2i{X: int32(sp.WidthSegs), Y: int32(sp.HeightSegs)}
	geom := render.NewSphereGeometry(sp.Radius)
	geom.WidthSegs, geom.HeightSegs = widthSegs, heightSegs
	sp.swapGeometry(geom)
	sp.WidthSegs, sp.HeightSegs = widthSegs, heightSegs
	sp.emit(ObjectDimensionChangedEvent, &Change[math32.Vector2i]{
		Old: old,
		New: math32.Vector2i{X: int32(widthSegs), Y: int32(heightSegs)},
	})
	return nil
}

func (sp *Sphere) Kind() string { return KindSphere }

// SetRadius replaces the sphere geometry with one of the given positive
// radius, releasing the old geometry first.
func (sp *Sphere) SetRadius(radius float32) error {
	if sp.disposed {
		return errs.Disposed("sphere.SetRadius")
	}
	if radius <= 0 {
		return errs.Validation("sphere.SetRadius", "radius must be positive, got %g", radius)
	}
	old := sp.Radius
	geom := render.NewSphereGeometry(radius)
	geom.WidthSegs, geom.HeightSegs = sp.WidthSegs, sp.HeightSegs
	sp.swapGeometry(geom)
	sp.Radius = radius
	sp.emit(ObjectDimensionChangedEvent, &Change[float32]{Old: old, New: radius})
	return nil
}

// Plane is a flat rectangular mesh.
type Plane struct {
	NodeBase

	// Size is the extent along each in-plane axis, always positive.
	Size math32.Vector2
}

// NewPlane returns a plane with the given positive extents.
func NewPlane(width, height float32) (*Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.Validation("scene.NewPlane", "dimensions must be positive, got (%g, %g)", width, height)
	}
	pl := &Plane{Size: math32.Vector2{X: width, Y: height}}
	pl.initHandle(genName(KindPlane), render.NewPlaneGeometry(width, height))
	return pl, nil
}

func (pl *Plane) Kind() string { return KindPlane }

// SetSize replaces the plane geometry with one of the given positive
// extents, releasing the old geometry first.
func (pl *Plane) SetSize(width, height float32) error {
	if pl.disposed {
		return errs.Disposed("plane.SetSize")
	}
	if width <= 0 || height <= 0 {
		return errs.Validation("plane.SetSize", "dimensions must be positive, got (%g, %g)", width, height)
	}
	old := pl.Size
	pl.swapGeometry(render.NewPlaneGeometry(width, height))
	pl.Size = math32.Vector2{X: width, Y: height}
	pl.emit(ObjectDimensionChangedEvent, &Change[math32.Vector2]{Old: old, New: pl.Size})
	return nil
}

// Cylinder is a capped cylinder mesh with equal top and bottom radii.
type Cylinder struct {
	NodeBase

	// Radius and Height define the cylinder extents, always positive.
	Radius, Height float32
}

// NewCylinder returns a cylinder with the given positive radius and height.
func NewCylinder(radius, height float32) (*Cylinder, error) {
	if radius <= 0 || height <= 0 {
		return nil, errs.Validation("scene.NewCylinder", "dimensions must be positive, got (%g, %g)", radius, height)
	}
	cy := &Cylinder{Radius: radius, Height: height}
	cy.initHandle(genName(KindCylinder), render.NewCylinderGeometry(radius, height))
	return cy, nil
}

func (cy *Cylinder) Kind() string { return KindCylinder }

// SetSize replaces the cylinder geometry with one of the given positive
// radius and height, releasing the old geometry first.
func (cy *Cylinder) SetSize(radius, height float32) error {
	if cy.disposed {
		return errs.Disposed("cylinder.SetSize")
	}
	if radius <= 0 || height <= 0 {
		return errs.Validation("cylinder.SetSize", "dimensions must be positive, got (%g, %g)", radius, height)
	}
	old := math32.Vector2{X: cy.Radius, Y: cy.Height}
	cy.swapGeometry(render.NewCylinderGeometry(radius, height))
	cy.Radius, cy.Height = radius, height
	cy.emit(ObjectDimensionChangedEvent, &Change[math32.Vector2]{Old: old, New: math32.Vector2{X: radius, Y: height}})
	return nil
}

// Object is the generic wrapper for a native handle that Sync adopted
// from the graph without knowing a richer type for it.
type Object struct {
	NodeBase
}

// WrapObject wraps an existing native handle in a generic node.
func WrapObject(h *render.Object) (*Object, error) {
	if h == nil {
		return nil, errs.Validation("scene.WrapObject", "handle must be non-nil")
	}
	ob := &Object{}
	ob.handle = h
	ob.name = h.Name
	if ob.name == "" {
		ob.name = genName(KindObject)
		h.Name = ob.name
	}
	return ob, nil
}

func (ob *Object) Kind() string { return KindObject }
