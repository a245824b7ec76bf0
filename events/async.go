// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// PublishAsync is the asynchronous counterpart of [Bus.Publish]: it fans the
// event out to every current listener on its own goroutine, bounds each
// invocation by the bus default timeout, and delivers the combined [Result]
// on the returned channel once every invocation has settled, success or
// failure (a settle-all join, never first-failure).
//
// A listener exceeding its timeout is recorded as a [TimeoutError] in the
// result errors; the handler goroutine itself is not killed, it is simply
// no longer waited for. Cancelling ctx settles all still-pending
// invocations with ctx.Err.
func (b *Bus) PublishAsync(ctx context.Context, name string, data any) <-chan *Result {
	return b.PublishAsyncTimeout(ctx, name, data, b.timeout)
}

// PublishAsyncTimeout is [Bus.PublishAsync] with an explicit per-listener
// timeout. A non-positive timeout falls back to the bus default.
func (b *Bus) PublishAsyncTimeout(ctx context.Context, name string, data any, timeout time.Duration) <-chan *Result {
	if timeout <= 0 {
		timeout = b.timeout
	}
	ev := b.newEvent(name, data)
	ls := b.snapshot(name)
	out := make(chan *Result, 1)
	go func() {
		res := &Result{Event: ev}
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, l := range ls {
			if l.filter != nil && !l.filter(ev) {
				continue
			}
			wg.Add(1)
			go func(l *Listener) {
				defer wg.Done()
				cerr, typ := b.invokeAsync(ctx, l, ev, timeout)
				mu.Lock()
				if cerr != nil {
					res.Errors = append(res.Errors, cerr)
				} else {
					res.Executed++
				}
				mu.Unlock()
				if cerr != nil {
					b.reportError(ev, cerr, typ)
				} else if l.Once {
					b.Unsubscribe(l.name, l.ID)
				}
			}(l)
		}
		wg.Wait()
		out <- res
	}()
	return out
}

// invokeAsync runs one listener on its own goroutine and waits for it to
// settle, time out, or be cancelled.
func (b *Bus) invokeAsync(ctx context.Context, l *Listener, ev *Event, timeout time.Duration) (*CallbackError, ErrorType) {
	done := make(chan *CallbackError, 1)
	go func() {
		done <- invoke(l, ev)
	}()
	timer := b.clock.Timer(timeout)
	defer timer.Stop()
	select {
	case cerr := <-done:
		return cerr, CallbackExecution
	case <-timer.C:
		return &CallbackError{
			ListenerID: l.ID,
			EventName:  ev.Name,
			Err:        &TimeoutError{Timeout: timeout},
		}, CallbackTimeout
	case <-ctx.Done():
		return &CallbackError{
			ListenerID: l.ID,
			EventName:  ev.Name,
			Err:        ctx.Err(),
		}, CallbackExecution
	}
}

// recoveredError converts a recovered panic value into an error.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("listener panic: %w", err)
	}
	return fmt.Errorf("listener panic: %v", r)
}
