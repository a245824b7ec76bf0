// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sceneio

import (
	"path/filepath"

	"github.com/diorama3d/diorama/base/errs"
	"github.com/diorama3d/diorama/scene"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadedEvent is published on the scene's global layer after a
// watched document was reloaded. Payload: [IOData].
const ReloadedEvent = "serializer:reloaded"

// Watcher reloads a scene from a document file whenever the file
// changes on disk.
type Watcher struct {
	sr   *Serializer
	sc   *scene.Scene
	path string
	fw   *fsnotify.Watcher
	log  *zap.Logger
	done chan struct{}
}

// Watch starts watching path and reloading sc from it on every write.
// The initial load is the caller's responsibility. Close the watcher
// before disposing the scene.
func (sr *Serializer) Watch(sc *scene.Scene, path string) (*Watcher, error) {
	if path == "" {
		return nil, errs.Validation("sceneio.Watch", "path must be non-empty")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that replace the file
	// on save would otherwise drop the watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		sr:   sr,
		sc:   sc,
		path: filepath.Clean(path),
		fw:   fw,
		log:  sr.log.Named("watch"),
		done: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := w.sr.OpenJSON(w.sc, w.path); err != nil {
				w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.sc.EmitGlobal(ReloadedEvent, &IOData{SceneID: w.sc.ID(), Path: w.path})
			w.log.Info("scene reloaded", zap.String("path", w.path))
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Path returns the watched file path.
func (w *Watcher) Path() string { return w.path }

// Close stops watching. Idempotent calls after the first return the
// underlying watcher's close error.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.fw.Close()
}
