// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// Handle is a native object that can live in a scene [Graph]: a mesh-bearing
// [Object], a [CameraHandle], or a [LightHandle].
type Handle interface {

	// AsHandleBase returns the [HandleBase] for this handle, which provides
	// the core transform and visibility state shared by all handles.
	AsHandleBase() *HandleBase
}

// HandleBase provides the core state common to every native handle.
// The wrapper owning a handle is the sole writer of these fields.
type HandleBase struct {

	// Name is the intrinsic name of the handle; the scene layer uses it as
	// the default tracking id when one is not given explicitly.
	Name string

	// Pos is the position of the handle, relative to the scene origin.
	Pos math32.Vector3

	// Rot is the rotation of the handle in Euler angles (degrees).
	Rot math32.Vector3

	// Scale is the scale along each dimension.
	Scale math32.Vector3

	// Visible is whether the handle is drawn.
	Visible bool
}

func (hb *HandleBase) AsHandleBase() *HandleBase {
	return hb
}

// Defaults sets defaults only if current values are nil.
func (hb *HandleBase) Defaults() {
	if hb.Scale == (math32.Vector3{}) {
		hb.Scale.Set(1, 1, 1)
	}
}

// Object is a mesh-bearing native handle: geometry plus material at a pose.
type Object struct {
	HandleBase

	// Geometry is the shape resource; owned by this object and released
	// with it.
	Geometry Geometry

	// Material is the surface resource.
	Material *Material
}

// NewObject returns a new visible Object with the given name, geometry,
// and material. A nil material gets [NewMaterial] defaults.
func NewObject(name string, geom Geometry, mat *Material) *Object {
	ob := &Object{Geometry: geom, Material: mat}
	ob.Name = name
	ob.Visible = true
	ob.Defaults()
	if ob.Material == nil {
		ob.Material = NewMaterial()
	}
	return ob
}

// Release frees the object's geometry and material resources. Idempotent.
func (ob *Object) Release() {
	if ob.Geometry != nil {
		ob.Geometry.AsGeometryBase().Release()
	}
	if ob.Material != nil {
		ob.Material.Release()
	}
}

// Material contains the surface properties of an [Object].
type Material struct {

	// Color is the main color of the surface; the alpha component carries
	// transparency alongside Opacity.
	Color color.RGBA

	// Emissive is the color the surface emits independent of lighting.
	Emissive color.RGBA

	// Opacity is the overall opacity in [0,1].
	Opacity float32

	// Transparent enables blending; required for Opacity < 1 to draw.
	Transparent bool

	// Wireframe renders edges only instead of filled polygons.
	Wireframe bool

	released bool
}

// NewMaterial returns a Material with default surface properties.
func NewMaterial() *Material {
	return &Material{
		Color:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
		Opacity: 1,
	}
}

// Release frees the material's backend resources. Idempotent.
func (mt *Material) Release() {
	mt.released = true
}

// Released reports whether the material has been released.
func (mt *Material) Released() bool {
	return mt.released
}

// CameraHandle is the native camera: projection parameters at a pose.
// The projection math itself belongs to the rendering backend.
type CameraHandle struct {
	HandleBase

	// Ortho selects an orthographic projection; default is perspective.
	Ortho bool

	// FOV is the perspective field of view in degrees.
	FOV float32

	// Aspect is the aspect ratio (width / height).
	Aspect float32

	// Near and Far are the clipping plane z coordinates.
	Near, Far float32

	// Left, Right, Top, Bottom are the orthographic view extents.
	Left, Right, Top, Bottom float32
}

// NewCameraHandle returns a camera handle with the standard defaults:
// perspective, FOV 60, aspect 1.5, near .1, far 1000, positioned at
// (0, 0, 10) looking down -Z.
func NewCameraHandle(name string) *CameraHandle {
	ch := &CameraHandle{FOV: 60, Aspect: 1.5, Near: 0.1, Far: 1000}
	ch.Name = name
	ch.Visible = true
	ch.Defaults()
	ch.Pos.Set(0, 0, 10)
	return ch
}

// LightHandle is a native light source.
type LightHandle struct {
	HandleBase

	// Color is the light color at full intensity.
	Color color.RGBA

	// Intensity is the brightness multiplier.
	Intensity float32

	// Target is the aim point handle for directional and spot lights;
	// nil for the other kinds. It is inserted into the graph alongside
	// the light itself.
	Target *HandleBase
}

// NewLightHandle returns a white light handle with the given name and
// intensity 1.
func NewLightHandle(name string) *LightHandle {
	lh := &LightHandle{
		Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Intensity: 1,
	}
	lh.Name = name
	lh.Visible = true
	lh.Defaults()
	return lh
}
