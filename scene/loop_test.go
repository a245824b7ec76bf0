// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/render/offscreen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLoopRendersFrames(t *testing.T) {
	global := events.New()
	rec := &recorder{}
	rec.watch(t, global, SceneLoopStartedEvent, SceneLoopStoppedEvent)

	var mu sync.Mutex
	var frames []*FrameData
	sc := newTestScene(t, &Config{Bus: global, TargetFPS: 200})
	_, err := sc.On(FrameRenderedEvent, func(ev *events.Event) error {
		mu.Lock()
		frames = append(frames, ev.Data.(*FrameData))
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, sc.StartRenderLoop())
	assert.True(t, sc.IsRendering())
	// Idempotent while running.
	require.NoError(t, sc.StartRenderLoop())
	assert.Equal(t, 1, rec.count(SceneLoopStartedEvent))

	rd := sc.Renderer().(*offscreen.Renderer)
	require.Eventually(t, func() bool { return rd.Frames() >= 3 },
		2*time.Second, time.Millisecond)

	sc.StopRenderLoop()
	assert.False(t, sc.IsRendering())
	sc.StopRenderLoop()
	assert.Equal(t, 1, rec.count(SceneLoopStoppedEvent))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, frames)
	for i, fd := range frames {
		assert.Equal(t, i+1, fd.Frame, "frame counter is dense")
		assert.Greater(t, fd.FPS, float32(0))
		assert.Equal(t, sc.ID(), fd.SceneID)
	}
}

func TestRenderLoopThrottle(t *testing.T) {
	mock := clock.NewMock()
	sc := newTestScene(t, &Config{Clock: mock, TargetFPS: 10}) // 100ms interval
	rd := sc.Renderer().(*offscreen.Renderer)

	require.NoError(t, sc.StartRenderLoop())
	// Let the loop goroutine install its ticker before driving the clock.
	time.Sleep(10 * time.Millisecond)

	// Ticks land every 25ms but no frame is due before the 100ms
	// interval has elapsed.
	mock.Add(50 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, rd.Frames())

	mock.Add(50 * time.Millisecond)
	require.Eventually(t, func() bool { return rd.Frames() == 1 },
		time.Second, time.Millisecond)

	// The next frame again waits out a full interval.
	mock.Add(50 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, rd.Frames())

	mock.Add(50 * time.Millisecond)
	require.Eventually(t, func() bool { return rd.Frames() == 2 },
		time.Second, time.Millisecond)

	sc.StopRenderLoop()
}

func TestRenderLoopStopsOnDispose(t *testing.T) {
	global := events.New()
	rec := &recorder{}
	rec.watch(t, global, SceneLoopStoppedEvent)
	sc, err := NewScene("viewport", &Config{Bus: global, TargetFPS: 200})
	require.NoError(t, err)
	assert.True(t, sc.IsRendering(), "loop auto-starts by default")

	rd := sc.Renderer().(*offscreen.Renderer)
	require.Eventually(t, func() bool { return rd.Frames() >= 1 },
		2*time.Second, time.Millisecond)

	require.NoError(t, sc.Dispose())
	assert.False(t, sc.IsRendering())
	assert.Equal(t, 1, rec.count(SceneLoopStoppedEvent))

	// No frames accepted after disposal. A frame already in flight when
	// Dispose ran may still land, so settle first.
	time.Sleep(20 * time.Millisecond)
	n := rd.Frames()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, rd.Frames())
}

func TestStartRenderLoopFPSOverride(t *testing.T) {
	sc := newTestScene(t, nil)
	require.Error(t, sc.StartRenderLoop(0))
	require.Error(t, sc.StartRenderLoop(-5))

	global := sc.global
	var got int
	_, err := global.Subscribe(SceneLoopStartedEvent, func(ev *events.Event) error {
		got = ev.Data.(*LoopData).TargetFPS
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, sc.StartRenderLoop(120))
	assert.Equal(t, 120, got)
	sc.StopRenderLoop()
}

func TestRenderLoopConcurrentMutation(t *testing.T) {
	sc := newTestScene(t, &Config{TargetFPS: 1000})
	require.NoError(t, sc.StartRenderLoop())
	rd := sc.Renderer().(*offscreen.Renderer)

	// Mutate the graph while the loop goroutine is drawing it.
	for i := 0; i < 300; i++ {
		box, err := NewBox(1, 1, 1)
		require.NoError(t, err)
		id, err := sc.Add(box)
		require.NoError(t, err)
		removed, err := sc.Remove(id)
		require.NoError(t, err)
		assert.True(t, removed)
	}

	require.Eventually(t, func() bool { return rd.Frames() >= 1 },
		2*time.Second, time.Millisecond)
	require.NoError(t, sc.Dispose())
}
