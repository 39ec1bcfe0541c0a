// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"context"
	"errors"
)

// EntryKind identifies the type of a thread entry.
type EntryKind string

const (
	// KindMessage is an inbound message from the ticket owner.
	KindMessage EntryKind = "message"

	// KindNote is an internal note. Inbound email from staff is
	// recorded as a note, which is what the command processor scans.
	KindNote EntryKind = "note"

	// KindResponse is an outbound response visible to the ticket owner.
	KindResponse EntryKind = "response"
)

// Valid reports whether k is one of the known entry kinds.
func (k EntryKind) Valid() bool {
	switch k {
	case KindMessage, KindNote, KindResponse:
		return true
	}
	return false
}

// SourceEmail is the entry source recorded for entries created from
// inbound email. Only these entries are scanned for commands.
const SourceEmail = "Email"

// ErrNoEntries is returned by [Latest] when a ticket thread is empty.
var ErrNoEntries = errors.New("ticket thread has no entries")

// Entry is one entry in a ticket thread.
type Entry interface {
	ID() int64
	Kind() EntryKind
	Source() string

	Body() string

	// SetBody replaces the body text. Implementations mark the entry
	// dirty when the new body differs from the persisted one.
	SetBody(body string)

	Dirty() bool
	Save(ctx context.Context) error
}

// Ticket is the parent of a thread.
type Ticket interface {
	Number() string

	// Entries returns the thread entries in storage order.
	Entries(ctx context.Context) ([]Entry, error)

	Dirty() bool
	Save(ctx context.Context) error
}

// Mailer delivers a response built from a ticket entry to the ticket's
// recipients. Delivery itself is outside this module; implementations
// queue or spool the message and return.
type Mailer interface {
	SendResponse(ctx context.Context, ticket Ticket, entry Entry) error
}

// Latest returns the thread entry with the highest ID.
func Latest(ctx context.Context, ticket Ticket) (Entry, error) {
	entries, err := ticket.Entries(ctx)
	if err != nil {
		return nil, err
	}
	var newest Entry
	for _, entry := range entries {
		if newest == nil || entry.ID() > newest.ID() {
			newest = entry
		}
	}
	if newest == nil {
		return nil, ErrNoEntries
	}
	return newest, nil
}
