// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commander

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/host"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

const logCategory = "emailcommander.process"

// EventTypeNote is the event data type of a newly posted note.
const EventTypeNote = "note"

// Outcome describes what [Commander.ObjectCreated] did with an event.
type Outcome int

const (
	// OutcomeIgnored means the event was not an email note.
	OutcomeIgnored Outcome = iota

	// OutcomeProcessed means every token ran and state was saved.
	OutcomeProcessed

	// OutcomeFailed means a token aborted the run.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeProcessed:
		return "processed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Commander runs the token pipeline for email notes.
type Commander struct {
	Registry *token.Registry
	Config   *config.Config

	// Mailer is optional.
	Mailer host.Mailer

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

func (c *Commander) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ObjectCreated handles one object-created event. object is the
// created object and data the event payload; only "type" is read.
//
// Token failures are logged and reported through the returned
// Outcome. The error is non-nil only when the thread cannot be read or
// a save fails.
func (c *Commander) ObjectCreated(ctx context.Context, object any, data map[string]any) (Outcome, error) {
	if c.Registry == nil {
		return OutcomeIgnored, errors.New("commander: no token registry")
	}
	ticket, ok := object.(host.Ticket)
	if !ok {
		return OutcomeIgnored, nil
	}
	if eventType, _ := data["type"].(string); eventType != EventTypeNote {
		return OutcomeIgnored, nil
	}

	logger := c.logger().With("ticket", ticket.Number())
	entry, err := host.Latest(ctx, ticket)
	if err != nil {
		if errors.Is(err, host.ErrNoEntries) {
			logger.Error("note event for a ticket with an empty thread", "category", logCategory)
			return OutcomeIgnored, nil
		}
		return OutcomeIgnored, err
	}
	if entry.Kind() != host.KindNote {
		logger.Error("latest thread entry is not a note",
			"category", logCategory,
			"entry", entry.ID(),
			"kind", entry.Kind(),
		)
		return OutcomeIgnored, nil
	}
	if entry.Source() != host.SourceEmail {
		logger.Debug("note did not arrive by email, skipping",
			"category", logCategory,
			"entry", entry.ID(),
			"source", entry.Source(),
		)
		return OutcomeIgnored, nil
	}

	env := token.Env{
		Config: c.Config,
		Ticket: ticket,
		Note:   entry,
		Mailer: c.Mailer,
		Logger: logger,
	}
	result, err := token.ProcessAll(ctx, c.Registry, env)
	if err != nil {
		logger.Error("saving processed note failed",
			"category", logCategory,
			"entry", entry.ID(),
			"error", err,
		)
		return OutcomeFailed, err
	}
	if result.Failed() {
		logger.Error("token failed",
			"category", logCategory,
			"entry", entry.ID(),
			"token", result.FailedToken,
			"processed_before", result.Processed,
			"error", result.Err,
		)
		return OutcomeFailed, nil
	}
	logger.Debug("note processed",
		"category", logCategory,
		"entry", entry.ID(),
		"tokens", result.Processed,
	)
	return OutcomeProcessed, nil
}
