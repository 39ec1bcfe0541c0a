// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package host

import (
	"context"
	"sync"
)

// MemoryTicket is an in-process [Ticket]. Saves only advance the
// persisted snapshot and count calls; nothing leaves the process.
//
// Set SaveError (on the ticket or on an entry) to make the next and
// every following Save fail, which is how tests exercise persistence
// failures.
type MemoryTicket struct {
	number string

	status          string
	persistedStatus string

	entries []*MemoryEntry

	// Saves counts successful Save calls.
	Saves int

	// SaveError, when non-nil, is returned by Save.
	SaveError error
}

// NewMemoryTicket returns an open ticket with an empty thread.
func NewMemoryTicket(number string) *MemoryTicket {
	return &MemoryTicket{
		number:          number,
		status:          "open",
		persistedStatus: "open",
	}
}

// Number returns the ticket number.
func (t *MemoryTicket) Number() string { return t.number }

// Status returns the current (possibly unsaved) status.
func (t *MemoryTicket) Status() string { return t.status }

// SetStatus changes the ticket status. The ticket is dirty until saved.
func (t *MemoryTicket) SetStatus(status string) { t.status = status }

// Entries returns the thread entries in the order they were added.
func (t *MemoryTicket) Entries(context.Context) ([]Entry, error) {
	entries := make([]Entry, len(t.entries))
	for i, entry := range t.entries {
		entries[i] = entry
	}
	return entries, nil
}

// AddEntry appends a persisted entry to the thread. IDs are assigned
// sequentially from 1.
func (t *MemoryTicket) AddEntry(kind EntryKind, source, body string) *MemoryEntry {
	entry := &MemoryEntry{
		id:        int64(len(t.entries) + 1),
		kind:      kind,
		source:    source,
		body:      body,
		persisted: body,
	}
	t.entries = append(t.entries, entry)
	return entry
}

// Dirty reports whether the status changed since the last save.
func (t *MemoryTicket) Dirty() bool { return t.status != t.persistedStatus }

// Save records the current status as persisted.
func (t *MemoryTicket) Save(context.Context) error {
	if t.SaveError != nil {
		return t.SaveError
	}
	t.persistedStatus = t.status
	t.Saves++
	return nil
}

// MemoryEntry is an in-process [Entry].
type MemoryEntry struct {
	id        int64
	kind      EntryKind
	source    string
	body      string
	persisted string

	// Saves counts successful Save calls.
	Saves int

	// SaveError, when non-nil, is returned by Save.
	SaveError error
}

func (e *MemoryEntry) ID() int64           { return e.id }
func (e *MemoryEntry) Kind() EntryKind     { return e.kind }
func (e *MemoryEntry) Source() string      { return e.source }
func (e *MemoryEntry) Body() string        { return e.body }
func (e *MemoryEntry) SetBody(body string) { e.body = body }

// PersistedBody returns the body as of the last successful save.
func (e *MemoryEntry) PersistedBody() string { return e.persisted }

// Dirty reports whether the body differs from the persisted body.
func (e *MemoryEntry) Dirty() bool { return e.body != e.persisted }

// Save records the current body as persisted.
func (e *MemoryEntry) Save(context.Context) error {
	if e.SaveError != nil {
		return e.SaveError
	}
	e.persisted = e.body
	e.Saves++
	return nil
}

// SentResponse is one response recorded by [MemoryMailer].
type SentResponse struct {
	Ticket string
	Entry  int64
	Body   string
}

// MemoryMailer records responses instead of delivering them. It is
// safe for concurrent use.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []SentResponse

	// Error, when non-nil, is returned by SendResponse.
	Error error
}

// SendResponse records the entry body as a sent response.
func (m *MemoryMailer) SendResponse(_ context.Context, ticket Ticket, entry Entry) error {
	if m.Error != nil {
		return m.Error
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentResponse{
		Ticket: ticket.Number(),
		Entry:  entry.ID(),
		Body:   entry.Body(),
	})
	return nil
}

// Sent returns a copy of every recorded response in send order.
func (m *MemoryMailer) Sent() []SentResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentResponse(nil), m.sent...)
}
