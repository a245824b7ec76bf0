// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sceneio

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	bus := events.New()
	var reloads atomic.Int32
	_, err := bus.Subscribe(ReloadedEvent, func(ev *events.Event) error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	sr := New(nil)
	src := newTestScene(t, bus)
	populate(t, src)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, sr.SaveJSON(src, path))

	dst := newTestScene(t, bus)
	require.NoError(t, sr.OpenJSON(dst, path))
	w, err := sr.Watch(dst, path)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, path, w.Path())

	// Shrink the source and rewrite the file; the watcher should pull
	// the change into dst.
	_, err = src.Remove("ball")
	require.NoError(t, err)
	require.NoError(t, sr.SaveJSON(src, path))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1 && dst.ObjectCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	_, ok := dst.Find("crate")
	assert.True(t, ok)
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, sr.SaveJSON(sc, path))

	w, err := sr.Watch(sc, path)
	require.NoError(t, err)
	defer w.Close()

	before := sc.ObjectCount()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o666))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, sc.ObjectCount())
}

func TestWatchValidation(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)
	_, err := sr.Watch(sc, "")
	assert.True(t, errs.IsValidation(err))
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	sr := New(nil)
	sc := newTestScene(t, nil)
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, sr.SaveJSON(sc, path))

	w, err := sr.Watch(sc, path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_ = w.Close()
}
