// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import "errors"

var (
	// ErrMatchEngine reports that a token's pattern could not be
	// applied to the note body: the pattern is missing or lacks the
	// boundary groups. It is fatal for the run.
	ErrMatchEngine = errors.New("command pattern cannot be applied")

	// ErrActionFailed reports that a token's PerformActions returned
	// false. It is fatal for the run.
	ErrActionFailed = errors.New("token actions failed")
)

// Result is the outcome of [ProcessAll].
type Result struct {
	// Processed is the number of tokens that completed.
	Processed int

	// Attempted is the number of tokens started. It equals Processed
	// on success and Processed+1 on failure.
	Attempted int

	// FailedToken is the name of the token that aborted the run.
	FailedToken string

	// Err is nil on success, otherwise wraps ErrMatchEngine or
	// ErrActionFailed.
	Err error
}

// Failed reports whether a token aborted the run.
func (r Result) Failed() bool { return r.Err != nil }

// Code returns the integer form of the result: the processed count on
// success, or minus the 1-based sorted position of the failing token.
// [Registry.Decode] reverses the failure case.
func (r Result) Code() int {
	if r.Failed() {
		return -r.Attempted
	}
	return r.Processed
}
