// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"fmt"
)

// ProcessAll runs every token in registry, in sorted order, over the
// note and ticket in env.
//
// The first token that fails aborts the run: later tokens do not run,
// nothing is saved, and no callbacks run. Body rewrites made by
// earlier tokens stay on the note. The failure is reported in the
// returned Result, not as an error.
//
// On success the note and ticket are saved if dirty, then the
// callbacks queued in the flag bag run in order. A callback that
// leaves the note or ticket dirty is logged as a cleanup warning and
// the dirty objects are saved again.
//
// The returned error is non-nil only when a save fails. Save failures
// are not retried.
func ProcessAll(ctx context.Context, registry *Registry, env Env) (Result, error) {
	logger := loggerFor(env)
	flags := NewFlags()

	var result Result
	for _, t := range registry.Sorted() {
		result.Attempted++
		if err := Process(ctx, t, flags, env); err != nil {
			result.FailedToken = t.Name()
			result.Err = err
			return result, nil
		}
		result.Processed++
	}

	if err := save(ctx, env); err != nil {
		return result, err
	}

	for _, callback := range flags.Deferred() {
		if err := callback.Invoke(ctx, flags, env); err != nil {
			logger.Error("deferred callback failed",
				"category", logCategory,
				"token", callback.Token,
				"ticket", env.Ticket.Number(),
				"error", err,
			)
		}
	}

	if env.Note.Dirty() || env.Ticket.Dirty() {
		logger.Warn("one or more callbacks failed to clean up after themselves",
			"category", logCategory+".cleanup",
			"ticket", env.Ticket.Number(),
			"note_dirty", env.Note.Dirty(),
			"ticket_dirty", env.Ticket.Dirty(),
		)
		if err := save(ctx, env); err != nil {
			return result, err
		}
	}

	return result, nil
}

// save writes the note and then the ticket if either is dirty.
func save(ctx context.Context, env Env) error {
	if env.Note.Dirty() {
		if err := env.Note.Save(ctx); err != nil {
			return fmt.Errorf("saving note %d of ticket %s: %w", env.Note.ID(), env.Ticket.Number(), err)
		}
	}
	if env.Ticket.Dirty() {
		if err := env.Ticket.Save(ctx); err != nil {
			return fmt.Errorf("saving ticket %s: %w", env.Ticket.Number(), err)
		}
	}
	return nil
}
