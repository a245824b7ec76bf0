// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diorama3d/diorama/base/errs"
)

// DefaultHistoryCap is the default bound on the publish history ring.
const DefaultHistoryCap = 100

// DefaultAsyncTimeout is the default per-listener timeout for
// [Bus.PublishAsync] when none is configured.
const DefaultAsyncTimeout = 5 * time.Second

// Bus is a named-event registry. There are no hidden globals: the
// process-wide bus is just a Bus constructed by the application root and
// passed down, and every scene embeds another Bus as its private router,
// so isolated buses can be created freely, one per test case if need be.
//
// All methods are safe for concurrent use.
type Bus struct {
	mu        sync.RWMutex
	clock     clock.Clock
	log       *zap.Logger
	histCap   int
	timeout   time.Duration
	history   []*Event
	listeners map[string][]*Listener
}

// Option configures a [Bus].
type Option func(*Bus)

// WithClock sets the clock used for event timestamps and async timeouts.
// Tests use clock.NewMock.
func WithClock(cl clock.Clock) Option {
	return func(b *Bus) {
		if cl != nil {
			b.clock = cl
		}
	}
}

// WithLogger sets the logger for dispatch diagnostics. Default is a nop.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}

// WithHistoryCap sets the bound on the event history ring.
func WithHistoryCap(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.histCap = n
		}
	}
}

// WithAsyncTimeout sets the default per-listener timeout for PublishAsync.
func WithAsyncTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// New returns a new Bus ready for use.
func New(opts ...Option) *Bus {
	b := &Bus{
		clock:     clock.New(),
		log:       zap.NewNop(),
		histCap:   DefaultHistoryCap,
		timeout:   DefaultAsyncTimeout,
		listeners: make(map[string][]*Listener),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

//////// Subscription

type subConfig struct {
	once      bool
	priority  int
	filter    FilterFunc
	filterSet bool
}

// SubOption configures a single subscription.
type SubOption func(*subConfig)

// Once auto-unsubscribes the listener after its first successful invocation.
func Once() SubOption {
	return func(c *subConfig) {
		c.once = true
	}
}

// Priority sets the dispatch priority: higher runs first, ties keep
// registration order.
func Priority(p int) SubOption {
	return func(c *subConfig) {
		c.priority = p
	}
}

// Filter restricts the listener to events for which fn returns true.
func Filter(fn FilterFunc) SubOption {
	return func(c *subConfig) {
		c.filter = fn
		c.filterSet = true
	}
}

// Subscribe registers fun under the given event name and returns the
// resulting [Listener], whose Off method is the unsubscribe function.
// It returns a [errs.ValidationError] for an empty name, a nil handler,
// or a nil filter supplied through [Filter].
func (b *Bus) Subscribe(name string, fun Handler, opts ...SubOption) (*Listener, error) {
	if name == "" {
		return nil, errs.Validation("events.Subscribe", "event name must be non-empty")
	}
	if fun == nil {
		return nil, errs.Validation("events.Subscribe", "handler must be non-nil")
	}
	cfg := subConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.filterSet && cfg.filter == nil {
		return nil, errs.Validation("events.Subscribe", "filter must be non-nil when provided")
	}
	l := &Listener{
		ID:       uuid.NewString(),
		Once:     cfg.once,
		Priority: cfg.priority,
		name:     name,
		fun:      fun,
		filter:   cfg.filter,
		bus:      b,
	}
	b.mu.Lock()
	ls := append(b.listeners[name], l)
	sort.SliceStable(ls, func(i, j int) bool {
		return ls[i].Priority > ls[j].Priority
	})
	b.listeners[name] = ls
	b.mu.Unlock()
	return l, nil
}

// Unsubscribe removes the listener with the given id from the given event,
// reporting whether a matching listener was removed. Removing the last
// listener for an event drops the event's bucket entirely.
func (b *Bus) Unsubscribe(name, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.listeners[name]
	for i, l := range ls {
		if l.ID == id {
			b.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			if len(b.listeners[name]) == 0 {
				delete(b.listeners, name)
			}
			return true
		}
	}
	return false
}

//////// Publishing

// Publish builds an immutable [Event] for the given name and data, records
// it in the history ring, and synchronously invokes every current listener
// for that name in priority order, on the caller's goroutine.
//
// A listener whose filter rejects the event is skipped. A listener that
// returns an error or panics is recorded in the Result and, unless the
// event is [ErrorEvent] itself, reported through a secondary ErrorEvent
// emitted asynchronously, decoupled from this dispatch. Once-listeners are
// unsubscribed immediately after their first successful invocation.
func (b *Bus) Publish(name string, data any) *Result {
	ev := b.newEvent(name, data)
	ls := b.snapshot(name)
	res := &Result{Event: ev}
	for _, l := range ls {
		if l.filter != nil && !l.filter(ev) {
			continue
		}
		if cerr := invoke(l, ev); cerr != nil {
			res.Errors = append(res.Errors, cerr)
			b.reportError(ev, cerr, CallbackExecution)
			continue
		}
		res.Executed++
		if l.Once {
			b.Unsubscribe(name, l.ID)
		}
	}
	return res
}

// invoke runs one listener with panic isolation, converting any failure
// into a CallbackError.
func invoke(l *Listener, ev *Event) (cerr *CallbackError) {
	defer func() {
		if r := recover(); r != nil {
			cerr = &CallbackError{
				ListenerID: l.ID,
				EventName:  ev.Name,
				Err:        recoveredError(r),
				Stack:      debug.Stack(),
			}
		}
	}()
	if err := l.fun(ev); err != nil {
		return &CallbackError{ListenerID: l.ID, EventName: ev.Name, Err: err}
	}
	return nil
}

// reportError schedules the secondary ErrorEvent for an isolated listener
// failure. Failures while dispatching ErrorEvent itself are not re-reported.
func (b *Bus) reportError(ev *Event, cerr *CallbackError, typ ErrorType) {
	b.log.Debug("listener failed", zap.String("event", ev.Name),
		zap.String("listener", cerr.ListenerID), zap.Error(cerr.Err))
	if ev.Name == ErrorEvent {
		return
	}
	go b.Publish(ErrorEvent, &ErrorEventData{
		Type:          typ,
		OriginalEvent: ev,
		ListenerID:    cerr.ListenerID,
		Err:           cerr.Err,
		Stack:         cerr.Stack,
	})
}

func (b *Bus) newEvent(name string, data any) *Event {
	ev := &Event{
		Name: name,
		Data: data,
		Time: b.clock.Now(),
		ID:   uuid.NewString(),
	}
	b.mu.Lock()
	b.history = append(b.history, ev)
	if n := len(b.history) - b.histCap; n > 0 {
		b.history = append(b.history[:0:0], b.history[n:]...)
	}
	b.mu.Unlock()
	return ev
}

// snapshot returns a copy of the current listener list for name, so that
// dispatch iterates a stable set even if listeners mutate the bus.
func (b *Bus) snapshot(name string) []*Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ls := b.listeners[name]
	if len(ls) == 0 {
		return nil
	}
	out := make([]*Listener, len(ls))
	copy(out, ls)
	return out
}

//////// Maintenance and introspection

// Clear removes all listeners for the given event names. With no names it
// removes every listener and empties the history ring.
func (b *Bus) Clear(names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(names) == 0 {
		b.listeners = make(map[string][]*Listener)
		b.history = nil
		return
	}
	for _, name := range names {
		delete(b.listeners, name)
	}
}

// Events returns the sorted names of all events with at least one listener.
func (b *Bus) Events() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.listeners))
	for name := range b.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListenerCount returns the number of listeners registered for name.
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// HasListeners reports whether any listener is registered for name.
func (b *Bus) HasListeners(name string) bool {
	return b.ListenerCount(name) > 0
}

// History returns up to limit of the most recently published events,
// oldest first. A non-positive limit returns everything retained, which
// is itself bounded by the history cap.
func (b *Bus) History(limit int) []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Event, n)
	copy(out, b.history[len(b.history)-n:])
	return out
}
