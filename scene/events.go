// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image"
	"time"

	"github.com/diorama3d/diorama/render"
)

// Event names published on the process-wide bus. Every scene publishes
// these so application-level observers can watch all scenes at once;
// payloads carry the scene id to disambiguate.
const (
	// SceneCreatedEvent is published once per successful scene construction.
	SceneCreatedEvent = "scene:created"

	// SceneDisposingEvent opens the ordered disposal sequence.
	SceneDisposingEvent = "scene:disposing"

	// SceneDestroyedEvent closes the disposal sequence.
	SceneDestroyedEvent = "scene:destroyed"

	// SceneDisposedEvent is the legacy alias still published immediately
	// after SceneDestroyedEvent for older consumers.
	SceneDisposedEvent = "scene:disposed"

	// SceneSyncedEvent reports a reconciliation pass that changed tracking.
	SceneSyncedEvent = "scene:synced"

	// SceneClearedEvent reports a bulk Clear of the tracked objects.
	SceneClearedEvent = "scene:cleared"

	SceneObjectAddedEvent   = "scene:object-added"
	SceneObjectRemovedEvent = "scene:object-removed"
	SceneLightAddedEvent    = "scene:light-added"
	SceneLightRemovedEvent  = "scene:light-removed"

	SceneLoopStartedEvent   = "scene:render-loop-started"
	SceneLoopStoppedEvent   = "scene:render-loop-stopped"
	SceneFrameRenderedEvent = "scene:frame-rendered"

	// RendererResizedEvent is the global event a platform layer publishes
	// when a renderer's output surface changes size; scenes subscribe to
	// it to re-derive their camera aspect. Payload: [ResizedData].
	RendererResizedEvent = "renderer:resized"
)

// Event names published on a scene's private, instance-scoped router.
const (
	// DisposingEvent is the first instance-scoped event of disposal.
	DisposingEvent = "disposing"

	ObjectAddedEvent   = "object:added"
	ObjectRemovedEvent = "object:removed"
	FrameRenderedEvent = "frame:rendered"

	// DestroyedEvent mirrors SceneDestroyedEvent on the instance router.
	// Note that the disposal order tears the instance listeners down
	// before it is published, so it is observable only through history.
	DestroyedEvent = "scene:destroyed"
)

// Wrapper lifecycle and property-change event names, published on the
// instance router of the scene the wrapper belongs to.
const (
	ObjectCreatedEvent           = "object:created"
	ObjectDisposingEvent         = "object:disposing"
	ObjectDisposedEvent          = "object:disposed"
	ObjectPositionChangedEvent   = "object:positionChanged"
	ObjectRotationChangedEvent   = "object:rotationChanged"
	ObjectScaleChangedEvent      = "object:scaleChanged"
	ObjectVisibilityChangedEvent = "object:visibilityChanged"
	ObjectLockChangedEvent       = "object:lockChanged"
	ObjectNameChangedEvent       = "object:nameChanged"
	ObjectColorChangedEvent      = "object:colorChanged"
	ObjectOpacityChangedEvent    = "object:opacityChanged"
	ObjectDimensionChangedEvent  = "object:dimensionChanged"

	CameraCreatedEvent               = "camera:created"
	CameraPositionChangedEvent       = "camera:position-changed"
	CameraRotationChangedEvent       = "camera:rotation-changed"
	CameraFOVChangedEvent            = "camera:fov-changed"
	CameraExtentsChangedEvent        = "camera:extents-changed"
	CameraAspectChangedEvent         = "camera:aspect-changed"
	CameraClippingPlanesChangedEvent = "camera:clipping-planes-changed"
	CameraDisposingEvent             = "camera:disposing"
	CameraDisposedEvent              = "camera:disposed"

	LightDisposingEvent = "light:disposing"
	LightDisposedEvent  = "light:disposed"
)

// Change is the payload of every property-change event: the value before
// and after the mutation.
type Change[T any] struct {
	Old, New T
}

// SceneData is the payload of the scene lifecycle events.
type SceneData struct {

	// SceneID is the unique id of the scene.
	SceneID string

	// ContainerID is the container the scene renders into.
	ContainerID string
}

// ObjectData is the payload of the object add/remove events.
type ObjectData struct {
	SceneID string

	// ObjectID is the tracking id of the object.
	ObjectID string

	// Node is the wrapper, nil when a raw native handle is tracked.
	Node Node

	// Handle is the native handle in the scene graph.
	Handle *render.Object
}

// LightData is the payload of the light add/remove events.
type LightData struct {
	SceneID string
	Kind    LightKind
	Name    string
}

// FrameData is the payload of the frame-rendered events.
type FrameData struct {
	SceneID string

	// Frame is the accepted-frame counter since the loop started.
	Frame int

	// FPS is the approximate instantaneous frame rate, computed from the
	// delta between consecutive accepted frames. It is noisy and
	// diagnostic only, not a scheduling input.
	FPS float32

	// Time is when the frame was accepted.
	Time time.Time
}

// LoopData is the payload of the render-loop start/stop events.
type LoopData struct {
	SceneID string

	// TargetFPS is the configured throttle target.
	TargetFPS int
}

// SyncReport is the payload of [SceneSyncedEvent]: what a reconciliation
// pass against the native graph changed.
type SyncReport struct {
	SceneID string

	// Added counts untracked mesh handles that were adopted.
	Added int

	// Removed counts tracked entries whose handle had left the graph.
	Removed int

	// Unchanged counts entries that were already consistent.
	Unchanged int
}

// ClearData is the payload of [SceneClearedEvent].
type ClearData struct {
	SceneID string

	// Objects and Lights count what was removed.
	Objects, Lights int
}

// ResizedData is the payload of [RendererResizedEvent].
type ResizedData struct {

	// ContainerID identifies which renderer resized; scenes ignore
	// resizes of containers they do not own.
	ContainerID string

	// Size is the new output size in pixels.
	Size image.Point
}
