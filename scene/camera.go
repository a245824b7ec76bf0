// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image"

	"cogentcore.org/core/math32"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/render"
)

// CameraKind is the projection type of a [Camera].
type CameraKind int32

const (
	// Perspective projects with a field of view; the default.
	Perspective CameraKind = iota

	// Orthographic projects with parallel rays inside fixed extents.
	Orthographic
)

func (ck CameraKind) String() string {
	switch ck {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return fmt.Sprintf("CameraKind(%d)", int32(ck))
}

// ParseCameraKind parses the string form produced by [CameraKind.String].
func ParseCameraKind(s string) (CameraKind, error) {
	switch s {
	case "perspective":
		return Perspective, nil
	case "orthographic":
		return Orthographic, nil
	}
	return 0, errs.Validation("scene.ParseCameraKind", "unknown camera kind %q", s)
}

// CameraConfig configures the camera a scene is constructed with.
// Zero-valued fields take the standard defaults.
type CameraConfig struct {

	// Kind selects the projection, defaulting to [Perspective].
	Kind CameraKind

	// FOV is the perspective field of view in degrees, strictly between
	// 0 and 180 exclusive. Default 60.
	FOV float32

	// Near and Far are the clipping plane distances: near strictly
	// positive, far strictly greater than near. Defaults 0.1 and 1000.
	Near, Far float32

	// Aspect overrides the aspect ratio; 0 derives it from the renderer
	// size and keeps re-deriving it on renderer resizes.
	Aspect float32

	// Left, Right, Top, Bottom are the orthographic extents, used only
	// when Kind is [Orthographic]. All zero defaults to +/-10 square.
	Left, Right, Top, Bottom float32

	// Pos is the initial camera position; the zero value defaults to
	// (0, 0, 10).
	Pos math32.Vector3
}

func (cc *CameraConfig) defaults() {
	if cc.FOV == 0 {
		cc.FOV = 60
	}
	if cc.Near == 0 {
		cc.Near = 0.1
	}
	if cc.Far == 0 {
		cc.Far = 1000
	}
	if cc.Left == 0 && cc.Right == 0 && cc.Top == 0 && cc.Bottom == 0 {
		cc.Left, cc.Right, cc.Top, cc.Bottom = -10, 10, 10, -10
	}
	if cc.Pos == (math32.Vector3{}) {
		cc.Pos.Set(0, 0, 10)
	}
}

func (cc *CameraConfig) validate() error {
	if cc.FOV <= 0 || cc.FOV >= 180 {
		return errs.Validation("scene.CameraConfig", "fov must be strictly between 0 and 180, got %g", cc.FOV)
	}
	if cc.Near <= 0 {
		return errs.Validation("scene.CameraConfig", "near plane must be positive, got %g", cc.Near)
	}
	if cc.Far <= cc.Near {
		return errs.Validation("scene.CameraConfig", "far plane %g must exceed near plane %g", cc.Far, cc.Near)
	}
	if cc.Aspect < 0 {
		return errs.Validation("scene.CameraConfig", "aspect must be positive, got %g", cc.Aspect)
	}
	if cc.Left >= cc.Right || cc.Bottom >= cc.Top {
		return errs.Validation("scene.CameraConfig", "extents must satisfy left < right and bottom < top")
	}
	return nil
}

// Camera wraps the native camera handle with validated mutation and
// property-change events. Every scene owns exactly one.
type Camera struct {
	kind   CameraKind
	handle *render.CameraHandle
	bus    *events.Bus

	// aspectOverride pins Aspect to a configured value, suppressing
	// re-derivation from renderer resizes.
	aspectOverride bool
	disposed       bool
}

// NewCamera builds a camera from the given config after applying
// defaults and validating.
func NewCamera(cfg CameraConfig) (*Camera, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ch := render.NewCameraHandle("camera")
	ch.Ortho = cfg.Kind == Orthographic
	ch.FOV = cfg.FOV
	ch.Near, ch.Far = cfg.Near, cfg.Far
	ch.Left, ch.Right, ch.Top, ch.Bottom = cfg.Left, cfg.Right, cfg.Top, cfg.Bottom
	ch.Pos = cfg.Pos
	cam := &Camera{kind: cfg.Kind, handle: ch}
	if cfg.Aspect > 0 {
		ch.Aspect = cfg.Aspect
		cam.aspectOverride = true
	}
	return cam, nil
}

func (cm *Camera) attach(bus *events.Bus) { cm.bus = bus }

func (cm *Camera) emit(name string, data any) {
	if cm.bus != nil {
		cm.bus.Publish(name, data)
	}
}

// Kind returns the projection kind.
func (cm *Camera) Kind() CameraKind { return cm.kind }

// Handle returns the native camera handle, nil after disposal.
func (cm *Camera) Handle() *render.CameraHandle { return cm.handle }

// IsDisposed reports whether Dispose has completed.
func (cm *Camera) IsDisposed() bool { return cm.disposed }

// Pos returns the camera position.
func (cm *Camera) Pos() math32.Vector3 {
	if cm.handle == nil {
		return math32.Vector3{}
	}
	return cm.handle.Pos
}

// SetPos moves the camera.
func (cm *Camera) SetPos(x, y, z float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetPos")
	}
	old := cm.handle.Pos
	cm.handle.Pos.Set(x, y, z)
	cm.emit(CameraPositionChangedEvent, &Change[math32.Vector3]{Old: old, New: cm.handle.Pos})
	return nil
}

// Rot returns the camera rotation in Euler angles (degrees).
func (cm *Camera) Rot() math32.Vector3 {
	if cm.handle == nil {
		return math32.Vector3{}
	}
	return cm.handle.Rot
}

// SetRot rotates the camera, in Euler angles (degrees).
func (cm *Camera) SetRot(x, y, z float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetRot")
	}
	old := cm.handle.Rot
	cm.handle.Rot.Set(x, y, z)
	cm.emit(CameraRotationChangedEvent, &Change[math32.Vector3]{Old: old, New: cm.handle.Rot})
	return nil
}

// FOV returns the perspective field of view in degrees.
func (cm *Camera) FOV() float32 {
	if cm.handle == nil {
		return 0
	}
	return cm.handle.FOV
}

// SetFOV sets the field of view, which must be strictly between 0 and
// 180 degrees exclusive.
func (cm *Camera) SetFOV(fov float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetFOV")
	}
	if fov <= 0 || fov >= 180 {
		return errs.Validation("camera.SetFOV", "fov must be strictly between 0 and 180, got %g", fov)
	}
	old := cm.handle.FOV
	cm.handle.FOV = fov
	cm.emit(CameraFOVChangedEvent, &Change[float32]{Old: old, New: fov})
	return nil
}

// Aspect returns the aspect ratio.
func (cm *Camera) Aspect() float32 {
	if cm.handle == nil {
		return 0
	}
	return cm.handle.Aspect
}

// SetAspect pins the aspect ratio to the given positive value,
// suppressing automatic re-derivation from renderer resizes.
func (cm *Camera) SetAspect(aspect float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetAspect")
	}
	if aspect <= 0 {
		return errs.Validation("camera.SetAspect", "aspect must be positive, got %g", aspect)
	}
	old := cm.handle.Aspect
	cm.handle.Aspect = aspect
	cm.aspectOverride = true
	cm.emit(CameraAspectChangedEvent, &Change[float32]{Old: old, New: aspect})
	return nil
}

// AspectPinned reports whether the aspect ratio is pinned to a
// configured or explicitly set value, suppressing re-derivation from
// renderer resizes.
func (cm *Camera) AspectPinned() bool { return cm.aspectOverride }

// OrthoExtents returns the orthographic view extents.
func (cm *Camera) OrthoExtents() (left, right, top, bottom float32) {
	if cm.handle == nil {
		return 0, 0, 0, 0
	}
	return cm.handle.Left, cm.handle.Right, cm.handle.Top, cm.handle.Bottom
}

// SetOrthoExtents sets the orthographic view extents: left strictly
// less than right, bottom strictly less than top.
func (cm *Camera) SetOrthoExtents(left, right, top, bottom float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetOrthoExtents")
	}
	if left >= right {
		return errs.Validation("camera.SetOrthoExtents", "left %g must be less than right %g", left, right)
	}
	if bottom >= top {
		return errs.Validation("camera.SetOrthoExtents", "bottom %g must be less than top %g", bottom, top)
	}
	old := [4]float32{cm.handle.Left, cm.handle.Right, cm.handle.Top, cm.handle.Bottom}
	cm.handle.Left, cm.handle.Right, cm.handle.Top, cm.handle.Bottom = left, right, top, bottom
	cm.emit(CameraExtentsChangedEvent, &Change[[4]float32]{
		Old: old,
		New: [4]float32{left, right, top, bottom},
	})
	return nil
}

// ClippingPlanes returns the near and far plane distances.
func (cm *Camera) ClippingPlanes() (near, far float32) {
	if cm.handle == nil {
		return 0, 0
	}
	return cm.handle.Near, cm.handle.Far
}

// SetClippingPlanes sets the clipping planes: near strictly positive,
// far strictly greater than near.
func (cm *Camera) SetClippingPlanes(near, far float32) error {
	if cm.disposed {
		return errs.Disposed("camera.SetClippingPlanes")
	}
	if near <= 0 {
		return errs.Validation("camera.SetClippingPlanes", "near plane must be positive, got %g", near)
	}
	if far <= near {
		return errs.Validation("camera.SetClippingPlanes", "far plane %g must exceed near plane %g", far, near)
	}
	oldNear, oldFar := cm.handle.Near, cm.handle.Far
	cm.handle.Near, cm.handle.Far = near, far
	cm.emit(CameraClippingPlanesChangedEvent, &Change[[2]float32]{
		Old: [2]float32{oldNear, oldFar},
		New: [2]float32{near, far},
	})
	return nil
}

// setAspectFromSize re-derives the aspect ratio from a renderer output
// size, unless a configured or explicitly set aspect pins it.
func (cm *Camera) setAspectFromSize(sz image.Point) {
	if cm.disposed || cm.aspectOverride || sz.Y <= 0 {
		return
	}
	old := cm.handle.Aspect
	cm.handle.Aspect = float32(sz.X) / float32(sz.Y)
	if cm.handle.Aspect != old {
		cm.emit(CameraAspectChangedEvent, &Change[float32]{Old: old, New: cm.handle.Aspect})
	}
}

// Dispose drops the native handle. Idempotent.
func (cm *Camera) Dispose() {
	if cm.disposed {
		return
	}
	cm.emit(CameraDisposingEvent, nil)
	cm.disposed = true
	cm.handle = nil
	cm.emit(CameraDisposedEvent, nil)
	cm.bus = nil
}
