// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bureau-foundation/emailcommander/lib/host"
)

const responseExtension = ".msg"

// Response is a spooled outbound response.
type Response struct {
	Ticket   string `cbor:"ticket"`
	Subject  string `cbor:"subject,omitempty"`
	Entry    int64  `cbor:"entry"`
	Body     string `cbor:"body"`
	QueuedAt string `cbor:"queued_at"`
}

// Outbox spools responses under <root>/outbox/. It implements
// host.Mailer.
type Outbox struct {
	store *Store
}

// Outbox returns the store's response spool.
func (s *Store) Outbox() *Outbox {
	return &Outbox{store: s}
}

// SendResponse spools the entry's current body. The ticket subject is
// included when the ticket comes from this store. Tickets from other
// hosts must still have a number the store accepts.
func (o *Outbox) SendResponse(ctx context.Context, ticket host.Ticket, entry host.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !numberPattern.MatchString(ticket.Number()) {
		return fmt.Errorf("spooling response: %w: %q", ErrInvalidNumber, ticket.Number())
	}
	response := Response{
		Ticket:   ticket.Number(),
		Entry:    entry.ID(),
		Body:     entry.Body(),
		QueuedAt: o.store.now(),
	}
	if stored, ok := ticket.(*Ticket); ok {
		response.Subject = stored.Subject()
	}

	name := fmt.Sprintf("%s-%d-%d%s", response.Ticket, response.Entry,
		o.store.clock.Now().UnixNano(), responseExtension)
	path := filepath.Join(outboxDir(o.store.root), name)
	if err := o.store.files.write(path, response); err != nil {
		return fmt.Errorf("spooling response for ticket %s: %w", response.Ticket, err)
	}
	return nil
}

// Pending returns the spooled responses in file name order.
func (o *Outbox) Pending() ([]Response, error) {
	dir := outboxDir(o.store.root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), responseExtension) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	responses := make([]Response, 0, len(names))
	for _, name := range names {
		var response Response
		if err := o.store.files.read(filepath.Join(dir, name), &response); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
