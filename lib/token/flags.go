// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import "context"

// Flags is the state shared by every token during one run. A fresh
// Flags is created per run and threaded through each token's
// lifecycle calls and each deferred callback, so a value set while
// scanning is visible when actions and callbacks run.
//
// Well-known state has typed accessors. Tokens that need private
// state use [Flags.Set] and [Flags.Value] with a key scoped by the
// token's name.
type Flags struct {
	respond  bool
	deferred []Deferred
	values   map[string]any
}

// Deferred is a callback queued by a token's PerformActions. It runs
// after every token has run and the first save has happened.
type Deferred struct {
	// Token is the name of the token that queued the callback.
	Token string

	// Invoke performs the callback. It must leave the ticket and note
	// clean: anything it changes it must save itself.
	Invoke func(ctx context.Context, flags *Flags, env Env) error
}

// NewFlags returns an empty flag bag with no deferred callbacks.
func NewFlags() *Flags {
	return &Flags{values: make(map[string]any)}
}

// Respond reports whether the note should be sent to the ticket owner.
func (f *Flags) Respond() bool { return f.respond }

// SetRespond sets the respond flag.
func (f *Flags) SetRespond(respond bool) { f.respond = respond }

// Defer queues a callback. Callbacks run in queue order.
func (f *Flags) Defer(callback Deferred) {
	f.deferred = append(f.deferred, callback)
}

// Deferred returns the queued callbacks in queue order.
func (f *Flags) Deferred() []Deferred {
	return f.deferred
}

// Set stores a token-private value.
func (f *Flags) Set(key string, value any) {
	f.values[key] = value
}

// Value returns a token-private value and whether it was set.
func (f *Flags) Value(key string) (any, bool) {
	value, ok := f.values[key]
	return value, ok
}
