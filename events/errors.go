// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"errors"
	"fmt"
	"time"
)

// ErrorEvent is the event name under which the bus reports isolated
// listener failures. Failures during a publish of ErrorEvent itself are
// recorded in the [Result] only, never re-broadcast, so error reporting
// cannot recurse.
const ErrorEvent = "error"

// ErrorType discriminates the kinds of failures carried by [ErrorEventData].
type ErrorType int32

const (
	// CallbackExecution is a listener that returned an error or panicked.
	CallbackExecution ErrorType = iota

	// CallbackTimeout is an async listener that exceeded its allotted time.
	CallbackTimeout
)

func (et ErrorType) String() string {
	switch et {
	case CallbackExecution:
		return "callback_execution"
	case CallbackTimeout:
		return "callback_timeout"
	default:
		return "unknown"
	}
}

// CallbackError records one isolated listener failure during a publish.
type CallbackError struct {

	// ListenerID identifies the listener that failed.
	ListenerID string

	// EventName is the event the listener was handling.
	EventName string

	// Err is the handler's error return, the recovered panic wrapped as an
	// error, or a [TimeoutError] for async listeners that ran too long.
	Err error

	// Stack is the goroutine stack captured at the point of a panic;
	// nil for plain error returns and timeouts.
	Stack []byte
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("events: listener %s failed handling %q: %v", e.ListenerID, e.EventName, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}

// TimeoutError is the error recorded for an async listener that did not
// settle within its timeout. It surfaces only inside publish results,
// never as a thrown error from the dispatch machinery.
type TimeoutError struct {

	// Timeout is the allotted time the listener exceeded.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("events: listener timed out after %v", e.Timeout)
}

// IsTimeout reports whether err is (or wraps) a [TimeoutError].
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// ErrorEventData is the payload of the secondary [ErrorEvent] that the bus
// emits, decoupled from the originating dispatch stack, when a listener
// fails during a publish of any other event.
type ErrorEventData struct {

	// Type says how the listener failed.
	Type ErrorType

	// OriginalEvent is the event whose dispatch produced the failure.
	OriginalEvent *Event

	// ListenerID identifies the failing listener.
	ListenerID string

	// Err is the underlying failure.
	Err error

	// Stack is the captured panic stack, if any.
	Stack []byte
}
