// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/render"
)

// Node is the interface all scene object wrappers satisfy. A Node owns
// exactly one native handle and validates every mutation before pushing
// it through to the handle, emitting a property-change event on the
// scene's instance router when attached.
type Node interface {

	// AsNodeBase returns the embedded [NodeBase], giving access to the
	// common transform, metadata, and lifecycle API.
	AsNodeBase() *NodeBase

	// Kind returns the tag used to identify the concrete node type in
	// serialized documents, e.g. "box".
	Kind() string
}

// NodeBase is the common implementation embedded by every wrapper.
// The zero value is not usable; wrappers are built by their constructors
// which install the native handle.
type NodeBase struct {
	handle   *render.Object
	bus      *events.Bus
	name     string
	tags     []string
	userData map[string]any
	locked   bool
	disposed bool
}

func (nb *NodeBase) AsNodeBase() *NodeBase { return nb }

// Handle returns the wrapped native object, nil after disposal.
func (nb *NodeBase) Handle() *render.Object { return nb.handle }

// attach points property-change events at the given router. The scene
// calls this when the node is added; a detached node mutates silently.
func (nb *NodeBase) attach(bus *events.Bus) { nb.bus = bus }

func (nb *NodeBase) emit(name string, data any) {
	if nb.bus != nil {
		nb.bus.Publish(name, data)
	}
}

// IsDisposed reports whether Dispose has completed.
func (nb *NodeBase) IsDisposed() bool { return nb.disposed }

// Locked reports whether the node rejects transform mutations.
func (nb *NodeBase) Locked() bool { return nb.locked }

// SetLocked toggles the transform lock.
func (nb *NodeBase) SetLocked(locked bool) error {
	if nb.disposed {
		return errs.Disposed("node.SetLocked")
	}
	if nb.locked == locked {
		return nil
	}
	old := nb.locked
	nb.locked = locked
	nb.emit(ObjectLockChangedEvent, &Change[bool]{Old: old, New: locked})
	return nil
}

// Name returns the node's display name.
func (nb *NodeBase) Name() string { return nb.name }

// SetName renames the node. The name is cosmetic and also serves as the
// intrinsic tracking id when the node is added without an explicit id.
func (nb *NodeBase) SetName(name string) error {
	if nb.disposed {
		return errs.Disposed("node.SetName")
	}
	if name == "" {
		return errs.Validation("node.SetName", "name must be non-empty")
	}
	old := nb.name
	nb.name = name
	if nb.handle != nil {
		nb.handle.Name = name
	}
	nb.emit(ObjectNameChangedEvent, &Change[string]{Old: old, New: name})
	return nil
}

// Pos returns the node's position.
func (nb *NodeBase) Pos() math32.Vector3 {
	if nb.handle == nil {
		return math32.Vector3{}
	}
	return nb.handle.Pos
}

// SetPos moves the node.
func (nb *NodeBase) SetPos(x, y, z float32) error {
	if nb.disposed {
		return errs.Disposed("node.SetPos")
	}
	if nb.locked {
		return errs.State("node.SetPos", "locked")
	}
	old := nb.handle.Pos
	nb.handle.Pos.Set(x, y, z)
	nb.emit(ObjectPositionChangedEvent, &Change[math32.Vector3]{Old: old, New: nb.handle.Pos})
	return nil
}

// Rot returns the node's rotation as Euler angles in degrees.
func (nb *NodeBase) Rot() math32.Vector3 {
	if nb.handle == nil {
		return math32.Vector3{}
	}
	return nb.handle.Rot
}

// SetRot sets the node's rotation as Euler angles in degrees.
func (nb *NodeBase) SetRot(x, y, z float32) error {
	if nb.disposed {
		return errs.Disposed("node.SetRot")
	}
	if nb.locked {
		return errs.State("node.SetRot", "locked")
	}
	old := nb.handle.Rot
	nb.handle.Rot.Set(x, y, z)
	nb.emit(ObjectRotationChangedEvent, &Change[math32.Vector3]{Old: old, New: nb.handle.Rot})
	return nil
}

// Scale returns the node's scale factors.
func (nb *NodeBase) Scale() math32.Vector3 {
	if nb.handle == nil {
		return math32.Vector3{}
	}
	return nb.handle.Scale
}

// SetScale sets the node's per-axis scale factors, which must be non-zero.
func (nb *NodeBase) SetScale(x, y, z float32) error {
	if nb.disposed {
		return errs.Disposed("node.SetScale")
	}
	if nb.locked {
		return errs.State("node.SetScale", "locked")
	}
	if x == 0 || y == 0 || z == 0 {
		return errs.Validation("node.SetScale", "scale factors must be non-zero, got (%g, %g, %g)", x, y, z)
	}
	old := nb.handle.Scale
	nb.handle.Scale.Set(x, y, z)
	nb.emit(ObjectScaleChangedEvent, &Change[math32.Vector3]{Old: old, New: nb.handle.Scale})
	return nil
}

// Visible reports whether the node renders.
func (nb *NodeBase) Visible() bool {
	if nb.handle == nil {
		return false
	}
	return nb.handle.Visible
}

// SetVisible toggles rendering of the node.
func (nb *NodeBase) SetVisible(vis bool) error {
	if nb.disposed {
		return errs.Disposed("node.SetVisible")
	}
	if nb.handle.Visible == vis {
		return nil
	}
	old := nb.handle.Visible
	nb.handle.Visible = vis
	nb.emit(ObjectVisibilityChangedEvent, &Change[bool]{Old: old, New: vis})
	return nil
}

// Color returns the material base color.
func (nb *NodeBase) Color() color.RGBA {
	if nb.handle == nil || nb.handle.Material == nil {
		return color.RGBA{}
	}
	return nb.handle.Material.Color
}

// SetColor sets the material base color.
func (nb *NodeBase) SetColor(clr color.RGBA) error {
	if nb.disposed {
		return errs.Disposed("node.SetColor")
	}
	old := nb.handle.Material.Color
	nb.handle.Material.Color = clr
	nb.emit(ObjectColorChangedEvent, &Change[color.RGBA]{Old: old, New: clr})
	return nil
}

// Opacity returns the material opacity.
func (nb *NodeBase) Opacity() float32 {
	if nb.handle == nil || nb.handle.Material == nil {
		return 0
	}
	return nb.handle.Material.Opacity
}

// SetOpacity sets the material opacity, in [0, 1]. Values below 1 mark
// the material transparent.
func (nb *NodeBase) SetOpacity(op float32) error {
	if nb.disposed {
		return errs.Disposed("node.SetOpacity")
	}
	if op < 0 || op > 1 {
		return errs.Validation("node.SetOpacity", "opacity must be in [0, 1], got %g", op)
	}
	old := nb.handle.Material.Opacity
	nb.handle.Material.Opacity = op
	nb.handle.Material.Transparent = op < 1
	nb.emit(ObjectOpacityChangedEvent, &Change[float32]{Old: old, New: op})
	return nil
}

// Tags returns the node's tag list.
func (nb *NodeBase) Tags() []string { return nb.tags }

// SetTags replaces the node's tag list.
func (nb *NodeBase) SetTags(tags ...string) error {
	if nb.disposed {
		return errs.Disposed("node.SetTags")
	}
	nb.tags = tags
	return nil
}

// HasTag reports whether the node carries the given tag.
func (nb *NodeBase) HasTag(tag string) bool {
	for _, t := range nb.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetUserData attaches an arbitrary key / value pair to the node.
// User data survives serialization round trips for JSON-compatible values.
func (nb *NodeBase) SetUserData(key string, val any) error {
	if nb.disposed {
		return errs.Disposed("node.SetUserData")
	}
	if nb.userData == nil {
		nb.userData = map[string]any{}
	}
	nb.userData[key] = val
	return nil
}

// UserData returns the node's user data map, nil when none was set.
func (nb *NodeBase) UserData() map[string]any { return nb.userData }

// Dispose releases the node's native resources, emits the lifecycle
// events, and drops the handle. It is idempotent.
func (nb *NodeBase) Dispose() {
	if nb.disposed {
		return
	}
	nb.emit(ObjectDisposingEvent, nb.name)
	nb.disposed = true
	if nb.handle != nil {
		nb.handle.Release()
		nb.handle = nil
	}
	nb.emit(ObjectDisposedEvent, nb.name)
	nb.bus = nil
}

// initHandle installs the native handle during construction.
func (nb *NodeBase) initHandle(name string, geom render.Geometry) {
	nb.name = name
	nb.handle = render.NewObject(name, geom, render.NewMaterial())
}

// swapGeometry releases the node's current geometry and installs the
// replacement. Primitives call this when their dimensions change so the
// old native buffers never leak.
func (nb *NodeBase) swapGeometry(geom render.Geometry) {
	if old := nb.handle.Geometry; old != nil {
		old.AsGeometryBase().Release()
	}
	nb.handle.Geometry = geom
}
