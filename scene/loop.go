// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"time"

	"github.com/diorama3d/diorama/base/errs"
	"go.uber.org/zap"
)

// StartRenderLoop starts the throttled render loop. An optional target
// FPS overrides the configured one for this and subsequent runs.
// Idempotent while already running.
func (sc *Scene) StartRenderLoop(targetFPS ...int) error {
	sc.mu.Lock()
	if sc.disposed {
		sc.mu.Unlock()
		return errs.Disposed("scene.StartRenderLoop")
	}
	if len(targetFPS) > 0 {
		if targetFPS[0] <= 0 {
			sc.mu.Unlock()
			return errs.Validation("scene.StartRenderLoop", "target fps must be positive, got %d", targetFPS[0])
		}
		sc.targetFPS = targetFPS[0]
	}
	if sc.rendering {
		sc.mu.Unlock()
		return nil
	}
	fps := sc.targetFPS
	stop := make(chan struct{})
	sc.stop = stop
	sc.rendering = true
	sc.frame = 0
	global := sc.global
	sc.mu.Unlock()

	global.Publish(SceneLoopStartedEvent, &LoopData{SceneID: sc.id, TargetFPS: fps})
	go sc.runLoop(time.Second/time.Duration(fps), stop)
	return nil
}

// StopRenderLoop stops the render loop. Idempotent while stopped.
func (sc *Scene) StopRenderLoop() {
	sc.mu.Lock()
	if !sc.rendering {
		sc.mu.Unlock()
		return
	}
	close(sc.stop)
	sc.stop = nil
	sc.rendering = false
	global, fps := sc.global, sc.targetFPS
	sc.mu.Unlock()

	global.Publish(SceneLoopStoppedEvent, &LoopData{SceneID: sc.id, TargetFPS: fps})
}

// runLoop ticks at a finer granularity than the frame interval and
// renders only when a full interval has elapsed since the last accepted
// frame, so a slow backend drops frames instead of queueing them.
func (sc *Scene) runLoop(interval time.Duration, stop chan struct{}) {
	tick := interval / 4
	if tick <= 0 {
		tick = time.Millisecond
	}
	tk := sc.clk.Ticker(tick)
	defer tk.Stop()

	last := sc.clk.Now()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			now := sc.clk.Now()
			// Frame delta is measured against the previous accepted
			// frame before the stamp is advanced, so the reported FPS
			// reflects the real inter-frame gap.
			delta := now.Sub(last)
			if delta < interval {
				continue
			}
			if !sc.renderFrame(now, delta) {
				return
			}
			last = now
		}
	}
}

// renderFrame draws one loop frame and publishes the frame events. It
// reports false when the loop should exit because the scene stopped or
// was disposed underneath it.
func (sc *Scene) renderFrame(now time.Time, delta time.Duration) bool {
	sc.mu.Lock()
	if sc.disposed || !sc.rendering {
		sc.mu.Unlock()
		return false
	}
	r, g, cam := sc.renderer, sc.graph, sc.camera.Handle()
	sc.frame++
	frame := sc.frame
	bus, global := sc.bus, sc.global
	sc.mu.Unlock()

	if err := r.Render(g, cam); err != nil {
		sc.log.Warn("render failed", zap.Int("frame", frame), zap.Error(err))
		return true
	}
	fps := float32(float64(time.Second) / float64(delta))
	fd := &FrameData{SceneID: sc.id, Frame: frame, FPS: fps, Time: now}
	bus.Publish(FrameRenderedEvent, fd)
	global.Publish(SceneFrameRenderedEvent, fd)
	return true
}
