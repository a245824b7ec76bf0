// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package events implements the named-event registry used throughout diorama,
both as the process-wide bus owned by [app.App] and as the private,
instance-scoped router embedded in every [scene.Scene].

Listeners are registered per event name with a priority (higher runs first,
stable for ties), optional once semantics, and an optional filter predicate.
Publishing builds an immutable [Event], records it in a bounded history ring,
and delivers it to every current listener with per-listener failure
isolation: a panicking or erroring handler is recorded in the [Result] and
never prevents the remaining listeners from running.
*/
package events

import (
	"time"
)

// Event is a single published occurrence of a named event.
// Events are immutable once created: the bus never mutates one after
// Publish builds it, and listeners must not either.
type Event struct {

	// Name is the event name it was published under, e.g. "scene:object-added".
	Name string

	// Data is the payload supplied by the publisher. The payload structs
	// for the events diorama itself publishes are declared alongside their
	// name constants in the publishing packages.
	Data any

	// Time is when the event was built, per the bus clock.
	Time time.Time

	// ID is a unique identifier for this event instance.
	ID string
}

// Handler is a listener callback. A non-nil return is recorded as a
// [CallbackError] in the publish [Result]; it does not stop dispatch to
// the remaining listeners.
type Handler func(ev *Event) error

// FilterFunc is a listener predicate: the listener runs only for events
// for which it returns true. A filtered-out listener is skipped, not
// counted as executed, and never treated as an error.
type FilterFunc func(ev *Event) bool

// Listener is one registration of a [Handler] under an event name.
// It is owned exclusively by the [Bus] it was registered on.
type Listener struct {

	// ID is the unique listener identifier, usable with [Bus.Unsubscribe].
	ID string

	// Once auto-unsubscribes the listener after its first successful
	// (non-skipped, non-erroring) invocation.
	Once bool

	// Priority determines dispatch order: higher priorities run first,
	// and ties keep registration order.
	Priority int

	name   string
	fun    Handler
	filter FilterFunc
	bus    *Bus
}

// Off unsubscribes the listener from its bus, reporting whether it was
// still registered. It is safe to call more than once.
func (l *Listener) Off() bool {
	return l.bus.Unsubscribe(l.name, l.ID)
}

// Result is the outcome of one publish: the event that was delivered,
// how many listeners actually executed successfully, and the isolated
// failures that occurred along the way.
type Result struct {

	// Event is the event that was dispatched.
	Event *Event

	// Executed counts listeners that ran to completion without error.
	// Filtered-out listeners are not counted.
	Executed int

	// Errors holds one entry per listener that failed (error return,
	// panic, or async timeout), in dispatch order.
	Errors []*CallbackError
}
