// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package scene provides the managed 3D scene: a [Scene] tracks wrapped
objects and lights in an id-addressed registry, drives a throttled render
loop over its [render.Renderer], and routes events through two layers, a
private per-scene router and a process-wide bus shared with the rest of
the application.

A scene is built with [NewScene] and torn down with [Scene.Dispose],
which runs a strictly ordered teardown and leaves every mutating method
failing with a state error.
*/
package scene

import (
	"image"
	"sync"
	"time"

	"cogentcore.org/core/base/ordmap"
	"github.com/benbjohnson/clock"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/render"
	"github.com/diorama3d/diorama/render/offscreen"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultTargetFPS is the render loop throttle target when none is
// configured.
const DefaultTargetFPS = 60

// Config configures a new [Scene]. The zero value is usable: it yields
// an offscreen renderer, a private global bus, a default perspective
// camera, three-point lighting, and an auto-started 60 FPS loop.
type Config struct {

	// Bus is the process-wide event bus shared with other scenes and
	// the application layer. When nil the scene creates a private one,
	// which makes the global layer scene-local but keeps the contract
	// uniform.
	Bus *events.Bus

	// Renderer is the rendering backend. When nil an offscreen
	// renderer is created for the scene's container.
	Renderer render.Renderer

	// Camera configures the scene camera.
	Camera CameraConfig

	// Lights configures the default lighting.
	Lights LightsConfig

	// NoAutoStart suppresses starting the render loop during
	// construction.
	NoAutoStart bool

	// TargetFPS is the render loop throttle target, defaulting to
	// [DefaultTargetFPS]. Negative values are invalid.
	TargetFPS int

	// Logger receives diagnostic output; nil means silent.
	Logger *zap.Logger

	// Clock is the time source for the render loop, event timestamps,
	// and tracking stamps. Defaults to the wall clock; tests install a
	// mock.
	Clock clock.Clock
}

func (c *Config) defaults() {
	if c.TargetFPS == 0 {
		c.TargetFPS = DefaultTargetFPS
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
}

// Tracked is one entry in a scene's object registry.
type Tracked struct {

	// ID is the tracking id, unique within the scene.
	ID string

	// Node is the wrapper, nil when a raw native handle was added.
	Node Node

	// Handle is the native handle present in the scene graph.
	Handle *render.Object

	// AddedAt is when the entry was added.
	AddedAt time.Time
}

// Scene is a managed 3D scene. All methods are safe for concurrent use.
// After [Scene.Dispose] every mutating method fails with a state error
// identifying the attempted operation.
type Scene struct {
	mu sync.Mutex

	id        string
	container string

	// bus is the instance-scoped router; global is the process-wide bus.
	bus    *events.Bus
	global *events.Bus

	// globalSubs are this scene's subscriptions on the global bus,
	// removed during disposal so a dead scene never reacts to global
	// traffic.
	globalSubs []*events.Listener

	renderer render.Renderer
	camera   *Camera
	graph    *render.Graph

	objects ordmap.Map[string, *Tracked]
	lights  ordmap.Map[string, Light]

	clk clock.Clock
	log *zap.Logger

	targetFPS int
	rendering bool
	stop      chan struct{}
	frame     int

	disposed bool
}

// NewScene builds a scene rendering into the given container. A nil cfg
// is equivalent to the zero [Config].
func NewScene(containerID string, cfg *Config) (*Scene, error) {
	if containerID == "" {
		return nil, errs.Validation("scene.NewScene", "container id must be non-empty")
	}
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()
	if c.TargetFPS < 0 {
		return nil, errs.Validation("scene.NewScene", "target fps must be positive, got %d", c.TargetFPS)
	}

	sc := &Scene{
		id:        uuid.NewString(),
		container: containerID,
		clk:       c.Clock,
		log:       c.Logger.Named("scene"),
		targetFPS: c.TargetFPS,
	}
	sc.bus = events.New(events.WithClock(sc.clk), events.WithLogger(sc.log))
	sc.global = c.Bus
	if sc.global == nil {
		sc.global = events.New(events.WithClock(sc.clk), events.WithLogger(sc.log))
	}
	sc.renderer = c.Renderer
	if sc.renderer == nil {
		sc.renderer = offscreen.New(containerID, image.Point{})
	}

	cam, err := NewCamera(c.Camera)
	if err != nil {
		return nil, err
	}
	cam.attach(sc.bus)
	cam.setAspectFromSize(sc.renderer.Size())
	sc.camera = cam
	sc.graph = render.NewGraph()
	sc.bus.Publish(CameraCreatedEvent, &SceneData{SceneID: sc.id, ContainerID: containerID})

	if !c.Lights.Disabled {
		defs := []struct {
			kind LightKind
			cfg  LightConfig
		}{
			{Sun, mergeLight(defaultKey, c.Lights.Key)},
			{Point, mergeLight(defaultFill, c.Lights.Fill)},
			{Ambient, mergeLight(defaultAmbient, c.Lights.Ambient)},
		}
		for _, d := range defs {
			if _, err := sc.AddLight(d.kind, &d.cfg); err != nil {
				return nil, err
			}
		}
	}

	// React to resizes of our own container only.
	li, err := sc.global.Subscribe(RendererResizedEvent, sc.onRendererResized,
		events.Filter(func(ev *events.Event) bool {
			d, ok := ev.Data.(*ResizedData)
			return ok && d.ContainerID == containerID
		}))
	if err != nil {
		return nil, err
	}
	sc.globalSubs = append(sc.globalSubs, li)

	sc.global.Publish(SceneCreatedEvent, &SceneData{SceneID: sc.id, ContainerID: containerID})
	sc.log.Info("scene created",
		zap.String("scene", sc.id), zap.String("container", containerID))

	if !c.NoAutoStart {
		if err := sc.StartRenderLoop(); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

func (sc *Scene) onRendererResized(ev *events.Event) error {
	d := ev.Data.(*ResizedData)
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return nil
	}
	sc.renderer.SetSize(d.Size)
	cam := sc.camera
	sc.mu.Unlock()
	cam.setAspectFromSize(d.Size)
	return nil
}

// ID returns the scene's unique id.
func (sc *Scene) ID() string { return sc.id }

// ContainerID returns the container the scene renders into.
func (sc *Scene) ContainerID() string { return sc.container }

// Camera returns the scene camera, nil after disposal.
func (sc *Scene) Camera() *Camera {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.camera
}

// Renderer returns the rendering backend, nil after disposal.
func (sc *Scene) Renderer() render.Renderer {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.renderer
}

// Graph returns the native scene graph. Mutating it directly bypasses
// tracking; call [Scene.Sync] afterward to reconcile.
func (sc *Scene) Graph() *render.Graph { return sc.graph }

// Events returns the scene's instance-scoped event router.
func (sc *Scene) Events() *events.Bus { return sc.bus }

// IsDisposed reports whether Dispose has completed.
func (sc *Scene) IsDisposed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.disposed
}

// IsRendering reports whether the render loop is running.
func (sc *Scene) IsRendering() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.rendering
}

// Add tracks the given node and inserts its handle into the graph,
// returning the tracking id. An explicit id may be supplied; otherwise
// the node's name serves as the id, or a fresh one is generated. Adding
// under an id that is already tracked fails.
func (sc *Scene) Add(n Node, id ...string) (string, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return "", errs.Disposed("scene.Add")
	}
	if n == nil {
		sc.mu.Unlock()
		return "", errs.Validation("scene.Add", "node must be non-nil")
	}
	nb := n.AsNodeBase()
	if nb.IsDisposed() {
		sc.mu.Unlock()
		return "", errs.Validation("scene.Add", "node is disposed")
	}
	tid := ""
	if len(id) > 0 {
		tid = id[0]
	}
	if tid == "" {
		tid = nb.Name()
	}
	if tid == "" {
		tid = uuid.NewString()
	}
	if _, exists := sc.objects.ValueByKeyTry(tid); exists {
		sc.mu.Unlock()
		return "", errs.Validation("scene.Add", "id %q is already tracked", tid)
	}
	nb.attach(sc.bus)
	sc.graph.Add(nb.Handle())
	sc.objects.Add(tid, &Tracked{ID: tid, Node: n, Handle: nb.Handle(), AddedAt: sc.clk.Now()})
	data := &ObjectData{SceneID: sc.id, ObjectID: tid, Node: n, Handle: nb.Handle()}
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	bus.Publish(ObjectAddedEvent, data)
	global.Publish(SceneObjectAddedEvent, data)
	return tid, nil
}

// AddHandle tracks a raw native handle without a wrapper. The handle's
// name serves as the tracking id unless an explicit id is supplied.
func (sc *Scene) AddHandle(h *render.Object, id ...string) (string, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return "", errs.Disposed("scene.AddHandle")
	}
	if h == nil {
		sc.mu.Unlock()
		return "", errs.Validation("scene.AddHandle", "handle must be non-nil")
	}
	tid := ""
	if len(id) > 0 {
		tid = id[0]
	}
	if tid == "" {
		tid = h.Name
	}
	if tid == "" {
		tid = uuid.NewString()
	}
	if _, exists := sc.objects.ValueByKeyTry(tid); exists {
		sc.mu.Unlock()
		return "", errs.Validation("scene.AddHandle", "id %q is already tracked", tid)
	}
	sc.graph.Add(h)
	sc.objects.Add(tid, &Tracked{ID: tid, Handle: h, AddedAt: sc.clk.Now()})
	data := &ObjectData{SceneID: sc.id, ObjectID: tid, Handle: h}
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	bus.Publish(ObjectAddedEvent, data)
	global.Publish(SceneObjectAddedEvent, data)
	return tid, nil
}

// Remove removes the object tracked under the given id, falling back to
// matching handle names when no tracking id matches. The wrapper, if
// any, is disposed. It reports whether anything was removed.
func (sc *Scene) Remove(id string) (bool, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return false, errs.Disposed("scene.Remove")
	}
	tr, ok := sc.objects.ValueByKeyTry(id)
	if !ok {
		for _, kv := range sc.objects.Order {
			if kv.Value.Handle != nil && kv.Value.Handle.Name == id {
				tr = kv.Value
				ok = true
				break
			}
		}
	}
	if !ok {
		sc.mu.Unlock()
		return false, nil
	}
	sc.removeLocked(tr)
	data := &ObjectData{SceneID: sc.id, ObjectID: tr.ID, Node: tr.Node, Handle: tr.Handle}
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	sc.disposeTracked(tr)
	bus.Publish(ObjectRemovedEvent, data)
	global.Publish(SceneObjectRemovedEvent, data)
	return true, nil
}

// RemoveNode removes the given node by reference.
func (sc *Scene) RemoveNode(n Node) (bool, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return false, errs.Disposed("scene.RemoveNode")
	}
	if n == nil {
		sc.mu.Unlock()
		return false, errs.Validation("scene.RemoveNode", "node must be non-nil")
	}
	var tr *Tracked
	for _, kv := range sc.objects.Order {
		if kv.Value.Node == n {
			tr = kv.Value
			break
		}
	}
	if tr == nil {
		sc.mu.Unlock()
		return false, nil
	}
	sc.removeLocked(tr)
	data := &ObjectData{SceneID: sc.id, ObjectID: tr.ID, Node: tr.Node, Handle: tr.Handle}
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	sc.disposeTracked(tr)
	bus.Publish(ObjectRemovedEvent, data)
	global.Publish(SceneObjectRemovedEvent, data)
	return true, nil
}

// removeLocked drops tr from the graph and the registry. Callers hold mu.
func (sc *Scene) removeLocked(tr *Tracked) {
	sc.graph.Remove(tr.Handle)
	sc.objects.DeleteKey(tr.ID)
}

// disposeTracked disposes the wrapper if the entry has one. Raw handles
// are only untracked, never released, since the caller may still own
// them.
func (sc *Scene) disposeTracked(tr *Tracked) {
	if tr.Node != nil {
		tr.Node.AsNodeBase().Dispose()
	}
}

// Find returns the tracking entry for the given id, falling back to
// matching handle names.
func (sc *Scene) Find(id string) (*Tracked, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if tr, ok := sc.objects.ValueByKeyTry(id); ok {
		return tr, true
	}
	for _, kv := range sc.objects.Order {
		if kv.Value.Handle != nil && kv.Value.Handle.Name == id {
			return kv.Value, true
		}
	}
	return nil, false
}

// FindAll returns the tracking entries matching the predicate, in
// insertion order. A nil predicate matches everything.
func (sc *Scene) FindAll(pred func(*Tracked) bool) []*Tracked {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	var out []*Tracked
	for _, kv := range sc.objects.Order {
		if pred == nil || pred(kv.Value) {
			out = append(out, kv.Value)
		}
	}
	return out
}

// Objects returns all tracking entries in insertion order.
func (sc *Scene) Objects() []*Tracked { return sc.FindAll(nil) }

// ObjectCount returns the number of tracked objects.
func (sc *Scene) ObjectCount() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.objects.Len()
}

// Clear removes every tracked object through the full removal path, and
// the lights too when disposeLights is set.
func (sc *Scene) Clear(disposeLights bool) error {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return errs.Disposed("scene.Clear")
	}
	var removed []*Tracked
	for _, kv := range sc.objects.Order {
		removed = append(removed, kv.Value)
	}
	for _, tr := range removed {
		sc.graph.Remove(tr.Handle)
	}
	sc.objects.Reset()

	var lights []Light
	if disposeLights {
		lights = sc.lights.Values()
		for _, lt := range lights {
			sc.removeLightLocked(lt)
		}
		sc.lights.Reset()
	}
	bus, global := sc.bus, sc.global
	data := &ClearData{SceneID: sc.id, Objects: len(removed), Lights: len(lights)}
	sc.mu.Unlock()

	for _, tr := range removed {
		sc.disposeTracked(tr)
		od := &ObjectData{SceneID: sc.id, ObjectID: tr.ID, Node: tr.Node, Handle: tr.Handle}
		bus.Publish(ObjectRemovedEvent, od)
		global.Publish(SceneObjectRemovedEvent, od)
	}
	for _, lt := range lights {
		name, kind := lt.AsLightBase().Name(), lt.Kind()
		lt.AsLightBase().Dispose()
		global.Publish(SceneLightRemovedEvent, &LightData{SceneID: sc.id, Kind: kind, Name: name})
	}
	global.Publish(SceneClearedEvent, data)
	return nil
}

// AddLight builds a light of the given kind with [NewLight] and adds it
// to the scene.
func (sc *Scene) AddLight(kind LightKind, cfg *LightConfig) (Light, error) {
	lt, err := NewLight(kind, cfg)
	if err != nil {
		return nil, err
	}
	if err := sc.AddLightInstance(lt); err != nil {
		return nil, err
	}
	return lt, nil
}

// AddLightInstance adds an already-built light to the scene. Light
// names are unique within a scene.
func (sc *Scene) AddLightInstance(lt Light) error {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return errs.Disposed("scene.AddLightInstance")
	}
	if lt == nil {
		sc.mu.Unlock()
		return errs.Validation("scene.AddLightInstance", "light must be non-nil")
	}
	lb := lt.AsLightBase()
	if lb.IsDisposed() {
		sc.mu.Unlock()
		return errs.Validation("scene.AddLightInstance", "light is disposed")
	}
	name := lb.Name()
	if _, exists := sc.lights.ValueByKeyTry(name); exists {
		sc.mu.Unlock()
		return errs.Validation("scene.AddLightInstance", "light name %q is already in use", name)
	}
	lb.attach(sc.bus)
	sc.graph.Add(lb.Handle())
	if tgt := lb.Target(); tgt != nil {
		sc.graph.Add(tgt)
	}
	sc.lights.Add(name, lt)
	global := sc.global
	data := &LightData{SceneID: sc.id, Kind: lt.Kind(), Name: name}
	sc.mu.Unlock()

	global.Publish(SceneLightAddedEvent, data)
	return nil
}

// RemoveLight removes the given light, disposing it. It reports whether
// the light was present.
func (sc *Scene) RemoveLight(lt Light) (bool, error) {
	if sc.IsDisposed() {
		return false, errs.Disposed("scene.RemoveLight")
	}
	if lt == nil {
		return false, errs.Validation("scene.RemoveLight", "light must be non-nil")
	}
	return sc.RemoveLightByName(lt.AsLightBase().Name())
}

// RemoveLightByName removes the light with the given name, disposing it.
func (sc *Scene) RemoveLightByName(name string) (bool, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return false, errs.Disposed("scene.RemoveLightByName")
	}
	lt, ok := sc.lights.ValueByKeyTry(name)
	if !ok {
		sc.mu.Unlock()
		return false, nil
	}
	sc.removeLightLocked(lt)
	sc.lights.DeleteKey(name)
	global := sc.global
	data := &LightData{SceneID: sc.id, Kind: lt.Kind(), Name: name}
	sc.mu.Unlock()

	lt.AsLightBase().Dispose()
	global.Publish(SceneLightRemovedEvent, data)
	return true, nil
}

// removeLightLocked drops the light's handles from the graph. Callers
// hold mu and handle registry removal and disposal themselves.
func (sc *Scene) removeLightLocked(lt Light) {
	lb := lt.AsLightBase()
	if h := lb.Handle(); h != nil {
		sc.graph.Remove(h)
	}
	if tgt := lb.Target(); tgt != nil {
		sc.graph.Remove(tgt)
	}
}

// Lights returns the scene's lights in insertion order.
func (sc *Scene) Lights() []Light {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.lights.Values()
}

// LightByName returns the light with the given name.
func (sc *Scene) LightByName(name string) (Light, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.lights.ValueByKeyTry(name)
}

// Render draws one frame immediately, outside the render loop.
func (sc *Scene) Render() error {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return errs.Disposed("scene.Render")
	}
	r, g, cam := sc.renderer, sc.graph, sc.camera.Handle()
	sc.mu.Unlock()
	return r.Render(g, cam)
}

// On subscribes to the scene's instance-scoped events.
func (sc *Scene) On(name string, fun events.Handler, opts ...events.SubOption) (*events.Listener, error) {
	if sc.IsDisposed() {
		return nil, errs.Disposed("scene.On")
	}
	return sc.bus.Subscribe(name, fun, opts...)
}

// Off removes an instance-scoped subscription by listener id.
func (sc *Scene) Off(name, id string) bool {
	return sc.bus.Unsubscribe(name, id)
}

// Emit publishes on the scene's instance-scoped router.
func (sc *Scene) Emit(name string, data any) (*events.Result, error) {
	if sc.IsDisposed() {
		return nil, errs.Disposed("scene.Emit")
	}
	return sc.bus.Publish(name, data), nil
}

// OnGlobal subscribes to the process-wide bus. The subscription is
// tracked and removed during the scene's disposal.
func (sc *Scene) OnGlobal(name string, fun events.Handler, opts ...events.SubOption) (*events.Listener, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return nil, errs.Disposed("scene.OnGlobal")
	}
	global := sc.global
	sc.mu.Unlock()

	li, err := global.Subscribe(name, fun, opts...)
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sc.globalSubs = append(sc.globalSubs, li)
	sc.mu.Unlock()
	return li, nil
}

// EmitGlobal publishes on the process-wide bus.
func (sc *Scene) EmitGlobal(name string, data any) (*events.Result, error) {
	if sc.IsDisposed() {
		return nil, errs.Disposed("scene.EmitGlobal")
	}
	return sc.global.Publish(name, data), nil
}

// Sync reconciles tracking with the native graph: untracked mesh
// handles are adopted under generic wrappers, and tracked entries whose
// handle has left the graph are dropped. Lights, targets, and cameras
// are never adopted. A report event is published when anything changed.
func (sc *Scene) Sync() (*SyncReport, error) {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return nil, errs.Disposed("scene.Sync")
	}
	rep := &SyncReport{SceneID: sc.id}

	tracked := make(map[*render.Object]bool, sc.objects.Len())
	for _, kv := range sc.objects.Order {
		tracked[kv.Value.Handle] = true
	}
	inGraph := map[*render.Object]bool{}
	for _, h := range sc.graph.Children() {
		ob, ok := h.(*render.Object)
		if !ok {
			continue
		}
		inGraph[ob] = true
		if tracked[ob] {
			rep.Unchanged++
			continue
		}
		n, err := WrapObject(ob)
		if err != nil {
			continue
		}
		n.attach(sc.bus)
		tid := n.Name()
		if _, exists := sc.objects.ValueByKeyTry(tid); exists {
			tid = uuid.NewString()
		}
		sc.objects.Add(tid, &Tracked{ID: tid, Node: n, Handle: ob, AddedAt: sc.clk.Now()})
		rep.Added++
	}

	var stale []string
	for _, kv := range sc.objects.Order {
		if !inGraph[kv.Value.Handle] {
			stale = append(stale, kv.Key)
		}
	}
	for _, k := range stale {
		sc.objects.DeleteKey(k)
		rep.Removed++
	}
	global := sc.global
	sc.mu.Unlock()

	if rep.Added+rep.Removed > 0 {
		global.Publish(SceneSyncedEvent, rep)
	}
	return rep, nil
}

// Dispose tears the scene down in a fixed order: disposing events, loop
// stop, object and light removal, instance listener teardown, global
// unsubscription, canvas detach, renderer release, camera disposal, and
// finally the destroyed events. Idempotent; concurrent and re-entrant
// calls are no-ops.
func (sc *Scene) Dispose() error {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return nil
	}
	sc.disposed = true
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	// The disposed flag fences re-entrant mutation, but the scene state
	// is still intact here: disposing listeners observe the scene as it
	// was, before any teardown.
	data := &SceneData{SceneID: sc.id, ContainerID: sc.container}
	bus.Publish(DisposingEvent, data)
	global.Publish(SceneDisposingEvent, data)

	sc.mu.Lock()
	renderer, camera := sc.renderer, sc.camera
	subs := sc.globalSubs
	var tracked []*Tracked
	for _, kv := range sc.objects.Order {
		tracked = append(tracked, kv.Value)
	}
	lights := sc.lights.Values()

	wasRendering := sc.rendering
	if sc.rendering {
		close(sc.stop)
		sc.stop = nil
		sc.rendering = false
	}

	sc.graph.Clear()
	sc.objects.Reset()
	sc.lights.Reset()
	sc.globalSubs = nil
	sc.renderer = nil
	sc.camera = nil
	sc.mu.Unlock()

	if wasRendering {
		global.Publish(SceneLoopStoppedEvent, &LoopData{SceneID: sc.id, TargetFPS: sc.targetFPS})
	}

	for _, tr := range tracked {
		sc.disposeTracked(tr)
		od := &ObjectData{SceneID: sc.id, ObjectID: tr.ID, Node: tr.Node, Handle: tr.Handle}
		bus.Publish(ObjectRemovedEvent, od)
		global.Publish(SceneObjectRemovedEvent, od)
	}
	for _, lt := range lights {
		name, kind := lt.AsLightBase().Name(), lt.Kind()
		lt.AsLightBase().Dispose()
		global.Publish(SceneLightRemovedEvent, &LightData{SceneID: sc.id, Kind: kind, Name: name})
	}

	bus.Clear()
	for _, li := range subs {
		li.Off()
	}

	var err error
	if renderer != nil {
		renderer.Canvas().Detach()
		err = multierr.Append(err, renderer.Release())
	}
	camera.Dispose()

	bus.Publish(DestroyedEvent, data)
	global.Publish(SceneDestroyedEvent, data)
	global.Publish(SceneDisposedEvent, data)
	sc.log.Info("scene disposed", zap.String("scene", sc.id))
	return err
}

// Destroy is an alias for [Scene.Dispose].
func (sc *Scene) Destroy() error { return sc.Dispose() }
