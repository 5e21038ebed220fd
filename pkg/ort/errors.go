// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ort

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// HardError wraps an object-store or checkout failure. It
// is returned from the recursive driver and the nonrecursive entry
// point; it is never produced for a conflict, which is data, not an
// error.
type HardError struct {
	Op  string
	Err error
}

func (e *HardError) Error() string {
	return fmt.Sprintf("ort: %s: %v", e.Op, e.Err)
}

func (e *HardError) Unwrap() error {
	return e.Err
}

func newHardError(op string, err error) *HardError {
	return &HardError{Op: op, Err: err}
}

// internalError is raised via panic for a broken invariant
// or accounting mismatch. These are bugs, never a user-visible
// outcome, so callers are not expected to recover from them; the one
// exception is Context.guarded, which recovers solely to attach a
// stack-free diagnostic through logrus before re-panicking.
type internalError struct {
	msg string
}

func (e *internalError) Error() string {
	return "ort: internal consistency violation: " + e.msg
}

func abortInternal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logrus.WithField("component", "ort").Error(msg)
	panic(&internalError{msg: msg})
}
