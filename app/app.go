// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package app provides the application root: an [App] owns the
process-wide event bus, the registry of live scenes, and the shared
logger and clock, and drives them through an explicit lifecycle. There
is no package-level singleton; everything hangs off the App the caller
constructs.
*/
package app

import (
	"fmt"
	"sync"

	"cogentcore.org/core/base/ordmap"
	"github.com/benbjohnson/clock"
	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/scene"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Lifecycle event names, published on the app's global bus.
const (
	InitializedEvent = "app:initialized"
	StartingEvent    = "app:starting"
	StartedEvent     = "app:started"
	StoppingEvent    = "app:stopping"
	StoppedEvent     = "app:stopped"
	DestroyingEvent  = "app:destroying"
	DestroyedEvent   = "app:destroyed"
)

// State is the lifecycle state of an [App].
type State int32

const (
	// Created is the state after [New], before [App.Initialize].
	Created State = iota

	// Initialized means the bus exists and scenes can be created.
	Initialized

	// Started means scene render loops are running.
	Started

	// Stopped means render loops are paused; Start resumes them.
	Stopped

	// Destroyed is terminal.
	Destroyed
)

func (st State) String() string {
	switch st {
	case Created:
		return "created"
	case Initialized:
		return "initialized"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("State(%d)", int32(st))
}

// App is the application root. All methods are safe for concurrent use.
type App struct {
	opts Options
	log  *zap.Logger
	clk  clock.Clock

	bus    *events.Bus
	scenes ordmap.Map[string, *scene.Scene]
	state  State

	mu sync.Mutex
}

// New returns an app with the given options and logger. A nil opts
// takes the defaults; a nil logger is silent.
func New(opts *Options, logger *zap.Logger) *App {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.defaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		opts: o,
		log:  logger.Named("app"),
		clk:  clock.New(),
	}
}

// Options returns the app's effective options.
func (ap *App) Options() Options { return ap.opts }

// State returns the app's lifecycle state.
func (ap *App) State() State {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.state
}

// Bus returns the process-wide event bus, nil before Initialize.
func (ap *App) Bus() *events.Bus {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.bus
}

// Initialize creates the global bus and makes the app ready to host
// scenes. Calling it twice is a state error.
func (ap *App) Initialize() error {
	ap.mu.Lock()
	if ap.state != Created {
		st := ap.state
		ap.mu.Unlock()
		return errs.State("app.Initialize", st.String())
	}
	ap.bus = events.New(
		events.WithClock(ap.clk),
		events.WithLogger(ap.log),
		events.WithHistoryCap(ap.opts.HistoryCap),
	)
	ap.state = Initialized
	bus := ap.bus
	ap.mu.Unlock()

	// Drop scenes from the registry as soon as they report destruction,
	// wherever the Dispose call came from.
	if _, err := bus.Subscribe(scene.SceneDestroyedEvent, func(ev *events.Event) error {
		if d, ok := ev.Data.(*scene.SceneData); ok {
			ap.mu.Lock()
			ap.scenes.DeleteKey(d.SceneID)
			ap.mu.Unlock()
		}
		return nil
	}); err != nil {
		return err
	}

	bus.Publish(InitializedEvent, ap.opts.Name)
	ap.log.Info("app initialized", zap.String("name", ap.opts.Name))
	return nil
}

// NewScene creates a scene wired to the app: shared bus, logger, clock,
// and the app's default target FPS, overridable through cfg.
func (ap *App) NewScene(containerID string, cfg *scene.Config) (*scene.Scene, error) {
	ap.mu.Lock()
	if ap.state != Initialized && ap.state != Started && ap.state != Stopped {
		st := ap.state
		ap.mu.Unlock()
		return nil, errs.State("app.NewScene", st.String())
	}
	bus := ap.bus
	started := ap.state == Started
	ap.mu.Unlock()

	var c scene.Config
	if cfg != nil {
		c = *cfg
	}
	c.Bus = bus
	if c.Logger == nil {
		c.Logger = ap.log
	}
	if c.Clock == nil {
		c.Clock = ap.clk
	}
	if c.TargetFPS == 0 {
		c.TargetFPS = ap.opts.TargetFPS
	}
	// Loops only run while the app is started.
	if !started {
		c.NoAutoStart = true
	}

	sc, err := scene.NewScene(containerID, &c)
	if err != nil {
		return nil, err
	}
	ap.mu.Lock()
	ap.scenes.Add(sc.ID(), sc)
	ap.mu.Unlock()
	return sc, nil
}

// Scenes returns the live scenes in creation order.
func (ap *App) Scenes() []*scene.Scene {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.scenes.Values()
}

// SceneByID returns the live scene with the given id.
func (ap *App) SceneByID(id string) (*scene.Scene, bool) {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.scenes.ValueByKeyTry(id)
}

// Start runs the render loops of every live scene.
func (ap *App) Start() error {
	ap.mu.Lock()
	if ap.state != Initialized && ap.state != Stopped {
		st := ap.state
		ap.mu.Unlock()
		return errs.State("app.Start", st.String())
	}
	ap.state = Started
	scenes := ap.scenes.Values()
	bus := ap.bus
	ap.mu.Unlock()

	bus.Publish(StartingEvent, ap.opts.Name)
	var err error
	for _, sc := range scenes {
		err = multierr.Append(err, sc.StartRenderLoop())
	}
	bus.Publish(StartedEvent, ap.opts.Name)
	ap.log.Info("app started", zap.Int("scenes", len(scenes)))
	return err
}

// Stop pauses the render loops of every live scene.
func (ap *App) Stop() error {
	ap.mu.Lock()
	if ap.state != Started {
		st := ap.state
		ap.mu.Unlock()
		return errs.State("app.Stop", st.String())
	}
	ap.state = Stopped
	scenes := ap.scenes.Values()
	bus := ap.bus
	ap.mu.Unlock()

	bus.Publish(StoppingEvent, ap.opts.Name)
	for _, sc := range scenes {
		sc.StopRenderLoop()
	}
	bus.Publish(StoppedEvent, ap.opts.Name)
	ap.log.Info("app stopped")
	return nil
}

// Destroy disposes every live scene, tears the bus down, and leaves the
// app in its terminal state. Idempotent.
func (ap *App) Destroy() error {
	ap.mu.Lock()
	if ap.state == Destroyed {
		ap.mu.Unlock()
		return nil
	}
	ap.state = Destroyed
	scenes := ap.scenes.Values()
	ap.scenes.Reset()
	bus := ap.bus
	ap.bus = nil
	ap.mu.Unlock()

	if bus != nil {
		bus.Publish(DestroyingEvent, ap.opts.Name)
	}
	var err error
	for _, sc := range scenes {
		err = multierr.Append(err, sc.Dispose())
	}
	if bus != nil {
		bus.Publish(DestroyedEvent, ap.opts.Name)
		bus.Clear()
	}
	ap.log.Info("app destroyed", zap.Error(err))
	return err
}
