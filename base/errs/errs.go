// Copyright (c) 2026, The Diorama Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs provides the small set of typed errors shared across the
// diorama packages: ValidationError for bad arguments and StateError for
// operations attempted in an invalid lifecycle state. Both are programmer
// errors and are always returned synchronously to the caller, never
// swallowed by dispatch machinery.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a bad argument passed to a constructor or setter.
type ValidationError struct {

	// Op is the operation that rejected the argument, e.g. "events.Subscribe".
	Op string

	// Reason describes what was wrong with the argument.
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Reason
}

// Validation returns a new [ValidationError] for the given operation,
// formatting the reason fmt.Sprintf style.
func Validation(op, format string, args ...any) error {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a [ValidationError].
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StateError reports an operation attempted in an invalid lifecycle state,
// such as a mutation on a disposed resource or a re-entrant initialization.
type StateError struct {

	// Op is the operation that was attempted, e.g. "scene.AddLight".
	Op string

	// State is the state that made the operation invalid, e.g. "disposed".
	State string
}

func (e *StateError) Error() string {
	return e.Op + ": invalid in state " + e.State
}

// State returns a new [StateError] for the given operation and state.
func State(op, state string) error {
	return &StateError{Op: op, State: state}
}

// Disposed returns the [StateError] for an operation attempted on a
// resource that has already been disposed.
func Disposed(op string) error {
	return &StateError{Op: op, State: "disposed"}
}

// IsState reports whether err is (or wraps) a [StateError].
func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// IsDisposed reports whether err is a [StateError] carrying the disposed state.
func IsDisposed(err error) bool {
	var se *StateError
	return errors.As(err, &se) && se.State == "disposed"
}
