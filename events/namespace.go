// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"context"
	"time"

	"github.com/diorama3d/diorama/base/errs"
)

// Namespaced is a view of a [Bus] that transparently prefixes every event
// name with "prefix:". It is a pure façade over the parent bus, not a
// separate registry: listeners registered through it live on the parent
// and are visible to it under the prefixed names.
type Namespaced struct {
	bus    *Bus
	prefix string
}

// Namespace returns a view of the bus whose operations rewrite event
// names to "prefix:name".
func (b *Bus) Namespace(prefix string) *Namespaced {
	return &Namespaced{bus: b, prefix: prefix}
}

func (n *Namespaced) rewrite(name string) string {
	return n.prefix + ":" + name
}

// Prefix returns the namespace prefix.
func (n *Namespaced) Prefix() string {
	return n.prefix
}

// Bus returns the underlying bus.
func (n *Namespaced) Bus() *Bus {
	return n.bus
}

// Subscribe registers a listener under the prefixed event name.
func (n *Namespaced) Subscribe(name string, fun Handler, opts ...SubOption) (*Listener, error) {
	if name == "" {
		// Reject before rewriting: the prefix would otherwise make an
		// empty name pass the parent's validation.
		return nil, errs.Validation("events.Subscribe", "event name must be non-empty")
	}
	return n.bus.Subscribe(n.rewrite(name), fun, opts...)
}

// Unsubscribe removes a listener from the prefixed event name.
func (n *Namespaced) Unsubscribe(name, id string) bool {
	return n.bus.Unsubscribe(n.rewrite(name), id)
}

// Publish publishes under the prefixed event name.
func (n *Namespaced) Publish(name string, data any) *Result {
	return n.bus.Publish(n.rewrite(name), data)
}

// PublishAsync publishes asynchronously under the prefixed event name.
func (n *Namespaced) PublishAsync(ctx context.Context, name string, data any) <-chan *Result {
	return n.bus.PublishAsync(ctx, n.rewrite(name), data)
}

// PublishAsyncTimeout publishes asynchronously under the prefixed event
// name with an explicit per-listener timeout.
func (n *Namespaced) PublishAsyncTimeout(ctx context.Context, name string, data any, timeout time.Duration) <-chan *Result {
	return n.bus.PublishAsyncTimeout(ctx, n.rewrite(name), data, timeout)
}

// Clear removes all listeners for the given prefixed event names.
// Unlike [Bus.Clear], calling it with no names is a no-op: a namespace
// view cannot wipe the parent bus.
func (n *Namespaced) Clear(names ...string) {
	for _, name := range names {
		n.bus.Clear(n.rewrite(name))
	}
}

// ListenerCount returns the listener count for the prefixed event name.
func (n *Namespaced) ListenerCount(name string) int {
	return n.bus.ListenerCount(n.rewrite(name))
}

// HasListeners reports whether the prefixed event name has listeners.
func (n *Namespaced) HasListeners(name string) bool {
	return n.bus.HasListeners(n.rewrite(name))
}
