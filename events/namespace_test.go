// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diorama3d/diorama/base/errs"
)

func TestNamespacePrefixesNames(t *testing.T) {
	b := New()
	ns := b.Namespace("scene-1")
	assert.Equal(t, "scene-1", ns.Prefix())
	assert.Same(t, b, ns.Bus())

	var got []string
	sub, err := ns.Subscribe("object:added", func(ev *Event) error {
		got = append(got, ev.Name)
		return nil
	})
	require.NoError(t, err)

	// Listeners live on the parent under the rewritten name.
	assert.Equal(t, 1, b.ListenerCount("scene-1:object:added"))
	assert.True(t, ns.HasListeners("object:added"))
	assert.False(t, b.HasListeners("object:added"))

	res := ns.Publish("object:added", nil)
	assert.Equal(t, 1, res.Executed)
	// A bare publish on the parent does not reach the namespace.
	b.Publish("object:added", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "scene-1:object:added", got[0])

	// A prefixed publish on the parent does.
	b.Publish("scene-1:object:added", nil)
	assert.Len(t, got, 2)

	assert.True(t, ns.Unsubscribe("object:added", sub.ID))
	assert.Equal(t, 0, b.ListenerCount("scene-1:object:added"))
}

func TestNamespaceIsolation(t *testing.T) {
	b := New()
	a := b.Namespace("a")
	c := b.Namespace("c")

	var hits int
	_, err := a.Subscribe("ping", func(ev *Event) error {
		hits++
		return nil
	})
	require.NoError(t, err)

	c.Publish("ping", nil)
	assert.Zero(t, hits)
	a.Publish("ping", nil)
	assert.Equal(t, 1, hits)
}

func TestNamespaceAsyncAndClear(t *testing.T) {
	b := New()
	ns := b.Namespace("io")

	var hits int
	_, err := ns.Subscribe("saved", func(ev *Event) error {
		hits++
		return nil
	})
	require.NoError(t, err)

	res := <-ns.PublishAsync(context.Background(), "saved", nil)
	assert.Equal(t, 1, res.Executed)
	assert.Equal(t, 1, hits)

	// Clear with no names must not wipe the parent bus.
	_, err = b.Subscribe("other", func(ev *Event) error { return nil })
	require.NoError(t, err)
	ns.Clear()
	assert.True(t, ns.HasListeners("saved"))
	assert.True(t, b.HasListeners("other"))

	ns.Clear("saved")
	assert.False(t, ns.HasListeners("saved"))
	assert.True(t, b.HasListeners("other"))
}

func TestNamespaceRejectsEmptyName(t *testing.T) {
	ns := New().Namespace("x")
	_, err := ns.Subscribe("", func(ev *Event) error { return nil })
	assert.True(t, errs.IsValidation(err))
}
