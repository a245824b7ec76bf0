// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/diorama3d/diorama/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	ap := New(nil, nil)
	require.NoError(t, ap.Initialize())
	t.Cleanup(func() { ap.Destroy() })
	return ap
}

func TestLifecycle(t *testing.T) {
	ap := New(nil, nil)
	assert.Equal(t, Created, ap.State())
	assert.Nil(t, ap.Bus())

	require.NoError(t, ap.Initialize())
	assert.Equal(t, Initialized, ap.State())
	require.NotNil(t, ap.Bus())

	// Re-entrant initialization is a state error.
	err := ap.Initialize()
	assert.True(t, errs.IsState(err))
	assert.ErrorContains(t, err, "app.Initialize")

	require.NoError(t, ap.Start())
	assert.Equal(t, Started, ap.State())
	assert.True(t, errs.IsState(ap.Start()))

	require.NoError(t, ap.Stop())
	assert.Equal(t, Stopped, ap.State())
	assert.True(t, errs.IsState(ap.Stop()))
	require.NoError(t, ap.Start())

	require.NoError(t, ap.Destroy())
	assert.Equal(t, Destroyed, ap.State())
	require.NoError(t, ap.Destroy(), "destroy is idempotent")
	assert.True(t, errs.IsState(ap.Start()))
}

func TestLifecycleEvents(t *testing.T) {
	ap := New(nil, nil)
	require.NoError(t, ap.Initialize())

	var seen []string
	for _, name := range []string{StartedEvent, StoppedEvent, DestroyedEvent} {
		_, err := ap.Bus().Subscribe(name, func(ev *events.Event) error {
			seen = append(seen, ev.Name)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, ap.Start())
	require.NoError(t, ap.Stop())
	require.NoError(t, ap.Destroy())
	assert.Equal(t, []string{StartedEvent, StoppedEvent, DestroyedEvent}, seen)
}

func TestNewSceneWiring(t *testing.T) {
	ap := newTestApp(t)
	sc, err := ap.NewScene("main", nil)
	require.NoError(t, err)

	// Scenes share the app bus: a global scene event is visible there.
	got := 0
	_, err = ap.Bus().Subscribe(scene.SceneObjectAddedEvent, func(ev *events.Event) error {
		got++
		return nil
	})
	require.NoError(t, err)
	box, err := scene.NewBox(1, 1, 1)
	require.NoError(t, err)
	_, err = sc.Add(box)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	// Loops only run while the app is started.
	assert.False(t, sc.IsRendering())
	require.NoError(t, ap.Start())
	assert.True(t, sc.IsRendering())
	require.NoError(t, ap.Stop())
	assert.False(t, sc.IsRendering())

	scenes := ap.Scenes()
	require.Len(t, scenes, 1)
	byID, ok := ap.SceneByID(sc.ID())
	require.True(t, ok)
	assert.Same(t, sc, byID)
}

func TestNewSceneRequiresInitialize(t *testing.T) {
	ap := New(nil, nil)
	_, err := ap.NewScene("main", nil)
	assert.True(t, errs.IsState(err))
}

func TestSceneDroppedFromRegistryOnDispose(t *testing.T) {
	ap := newTestApp(t)
	sc, err := ap.NewScene("main", nil)
	require.NoError(t, err)
	require.NoError(t, sc.Dispose())

	_, ok := ap.SceneByID(sc.ID())
	assert.False(t, ok)
	assert.Empty(t, ap.Scenes())
}

func TestDestroyDisposesScenes(t *testing.T) {
	ap := New(nil, nil)
	require.NoError(t, ap.Initialize())
	a, err := ap.NewScene("a", nil)
	require.NoError(t, err)
	b, err := ap.NewScene("b", nil)
	require.NoError(t, err)

	require.NoError(t, ap.Destroy())
	assert.True(t, a.IsDisposed())
	assert.True(t, b.IsDisposed())
	assert.Nil(t, ap.Bus())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o666))
	return path
}

func TestOpenConfig(t *testing.T) {
	toml := writeConfig(t, "app.toml", "name = \"demo\"\ntarget-fps = 30\n")
	o, err := OpenConfig(toml)
	require.NoError(t, err)
	assert.Equal(t, "demo", o.Name)
	assert.Equal(t, 30, o.TargetFPS)
	assert.Equal(t, events.DefaultHistoryCap, o.HistoryCap, "unset fields take defaults")

	yaml := writeConfig(t, "app.yaml", "name: demo\nhistory-cap: 7\n")
	o, err = OpenConfig(yaml)
	require.NoError(t, err)
	assert.Equal(t, 7, o.HistoryCap)
	assert.Equal(t, scene.DefaultTargetFPS, o.TargetFPS)

	json := writeConfig(t, "app.json", `{"name":"demo","targetFPS":24}`)
	o, err = OpenConfig(json)
	require.NoError(t, err)
	assert.Equal(t, 24, o.TargetFPS)
}

func TestOpenConfigErrors(t *testing.T) {
	_, err := OpenConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	ini := writeConfig(t, "app.ini", "name=demo")
	_, err = OpenConfig(ini)
	assert.True(t, errs.IsValidation(err))

	bad := writeConfig(t, "app.toml", "name = [broken")
	_, err = OpenConfig(bad)
	assert.True(t, errs.IsValidation(err))

	neg := writeConfig(t, "app.toml", "target-fps = -1")
	_, err = OpenConfig(neg)
	assert.True(t, errs.IsValidation(err))
}
