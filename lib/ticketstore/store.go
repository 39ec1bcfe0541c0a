// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/bureau-foundation/emailcommander/lib/clock"
	"github.com/bureau-foundation/emailcommander/lib/host"
)

// recordVersion is the schema version written to ticket records.
const recordVersion = 1

const ticketExtension = ".tkt"

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketExists   = errors.New("ticket already exists")
	ErrInvalidNumber  = errors.New("invalid ticket number")
)

var numberPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,63}$`)

// Options configures [Open].
type Options struct {
	// Root is the store directory. It is created if missing.
	Root string

	// Compression is "zstd" (default) or "none".
	Compression string

	// Clock stamps created and updated times. Defaults to clock.Real.
	Clock clock.Clock
}

// Store is a directory of ticket files.
type Store struct {
	root  string
	clock clock.Clock
	files *codecFiles
}

type ticketRecord struct {
	Version   int           `cbor:"version"`
	Number    string        `cbor:"number"`
	Subject   string        `cbor:"subject"`
	Status    string        `cbor:"status"`
	CreatedAt string        `cbor:"created_at"`
	UpdatedAt string        `cbor:"updated_at"`
	Entries   []entryRecord `cbor:"entries,omitempty"`
}

type entryRecord struct {
	ID        int64  `cbor:"id"`
	Kind      string `cbor:"kind"`
	Source    string `cbor:"source"`
	Poster    string `cbor:"poster,omitempty"`
	Body      string `cbor:"body"`
	CreatedAt string `cbor:"created_at"`
	UpdatedAt string `cbor:"updated_at,omitempty"`
}

// Open opens (creating if necessary) the store at opts.Root.
func Open(opts Options) (*Store, error) {
	if opts.Root == "" {
		return nil, errors.New("ticketstore: root is required")
	}
	tag, err := ParseCompression(opts.Compression)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{ticketsDir(opts.Root), outboxDir(opts.Root)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	files, err := newCodecFiles(tag)
	if err != nil {
		return nil, err
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{root: opts.Root, clock: clk, files: files}, nil
}

// Close releases the compression state.
func (s *Store) Close() error {
	s.files.close()
	return nil
}

func ticketsDir(root string) string { return filepath.Join(root, "tickets") }
func outboxDir(root string) string  { return filepath.Join(root, "outbox") }

func (s *Store) ticketPath(number string) string {
	return filepath.Join(ticketsDir(s.root), number+ticketExtension)
}

func (s *Store) now() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}

// Create writes a new open ticket with an empty thread.
func (s *Store) Create(ctx context.Context, number, subject string) (*Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !numberPattern.MatchString(number) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	path := s.ticketPath(number)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketExists, number)
	}
	now := s.now()
	record := ticketRecord{
		Version:   recordVersion,
		Number:    number,
		Subject:   subject,
		Status:    "open",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.files.write(path, record); err != nil {
		return nil, fmt.Errorf("creating ticket %s: %w", number, err)
	}
	return newTicket(s, record), nil
}

// Load reads a ticket and its thread.
func (s *Store) Load(ctx context.Context, number string) (*Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !numberPattern.MatchString(number) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	var record ticketRecord
	if err := s.files.read(s.ticketPath(number), &record); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, number)
		}
		return nil, fmt.Errorf("loading ticket %s: %w", number, err)
	}
	return newTicket(s, record), nil
}

// Raw returns the decompressed CBOR record of a ticket, for debugging
// with codec.Diagnose.
func (s *Store) Raw(ctx context.Context, number string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !numberPattern.MatchString(number) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, number)
	}
	data, err := os.ReadFile(s.ticketPath(number))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, number)
		}
		return nil, err
	}
	payload, err := s.files.payload(data)
	if err != nil {
		return nil, fmt.Errorf("reading ticket %s: %w", number, err)
	}
	return payload, nil
}

// Numbers returns the numbers of every stored ticket, sorted.
func (s *Store) Numbers() ([]string, error) {
	entries, err := os.ReadDir(ticketsDir(s.root))
	if err != nil {
		return nil, err
	}
	var numbers []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ticketExtension) {
			continue
		}
		numbers = append(numbers, strings.TrimSuffix(name, ticketExtension))
	}
	slices.Sort(numbers)
	return numbers, nil
}

// Ticket is a stored ticket. It implements host.Ticket.
type Ticket struct {
	store *Store

	// persisted mirrors the file on disk.
	persisted ticketRecord

	subject string
	status  string
	saved   digest

	entries []*Entry
}

func newTicket(s *Store, record ticketRecord) *Ticket {
	t := &Ticket{
		store:     s,
		persisted: record,
		subject:   record.Subject,
		status:    record.Status,
	}
	t.saved = t.digest()
	for i := range record.Entries {
		t.entries = append(t.entries, newEntry(t, record.Entries[i]))
	}
	return t
}

func (t *Ticket) digest() digest { return digestOf(t.subject, t.status) }

func (t *Ticket) Number() string  { return t.persisted.Number }
func (t *Ticket) Subject() string { return t.subject }
func (t *Ticket) Status() string  { return t.status }

func (t *Ticket) SetSubject(subject string) { t.subject = subject }
func (t *Ticket) SetStatus(status string)   { t.status = status }

// Entries returns the thread in storage order.
func (t *Ticket) Entries(context.Context) ([]host.Entry, error) {
	entries := make([]host.Entry, len(t.entries))
	for i, entry := range t.entries {
		entries[i] = entry
	}
	return entries, nil
}

// Dirty reports whether subject or status differ from the saved values.
func (t *Ticket) Dirty() bool { return t.digest() != t.saved }

// Save writes the ticket fields. Unsaved entry bodies are not written.
func (t *Ticket) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record := t.persisted
	record.Subject = t.subject
	record.Status = t.status
	record.UpdatedAt = t.store.now()
	if err := t.store.files.write(t.store.ticketPath(record.Number), record); err != nil {
		return fmt.Errorf("saving ticket %s: %w", record.Number, err)
	}
	t.persisted = record
	t.saved = t.digest()
	return nil
}

// AddEntry appends an entry to the thread and writes it immediately.
// The new entry gets the next ID after the highest existing one.
func (t *Ticket) AddEntry(ctx context.Context, kind host.EntryKind, source, poster, body string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid entry kind %q", kind)
	}
	var id int64 = 1
	for _, entry := range t.persisted.Entries {
		if entry.ID >= id {
			id = entry.ID + 1
		}
	}
	now := t.store.now()
	added := entryRecord{
		ID:        id,
		Kind:      string(kind),
		Source:    source,
		Poster:    poster,
		Body:      body,
		CreatedAt: now,
	}

	record := t.persisted
	record.Entries = append(slices.Clone(t.persisted.Entries), added)
	record.UpdatedAt = now
	if err := t.store.files.write(t.store.ticketPath(record.Number), record); err != nil {
		return nil, fmt.Errorf("adding entry to ticket %s: %w", record.Number, err)
	}
	t.persisted = record

	entry := newEntry(t, added)
	t.entries = append(t.entries, entry)
	return entry, nil
}

// Entry is a stored thread entry. It implements host.Entry.
type Entry struct {
	ticket *Ticket
	record entryRecord
	body   string
	saved  digest
}

func newEntry(t *Ticket, record entryRecord) *Entry {
	return &Entry{ticket: t, record: record, body: record.Body, saved: digestOf(record.Body)}
}

func (e *Entry) ID() int64            { return e.record.ID }
func (e *Entry) Kind() host.EntryKind { return host.EntryKind(e.record.Kind) }
func (e *Entry) Source() string       { return e.record.Source }
func (e *Entry) Poster() string       { return e.record.Poster }
func (e *Entry) CreatedAt() string    { return e.record.CreatedAt }
func (e *Entry) Body() string         { return e.body }

func (e *Entry) SetBody(body string) { e.body = body }

// Dirty reports whether the body differs from the saved body.
func (e *Entry) Dirty() bool { return digestOf(e.body) != e.saved }

// Save writes this entry's body. Other unsaved changes on the ticket
// are not written.
func (e *Entry) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := e.ticket
	index := slices.IndexFunc(t.persisted.Entries, func(r entryRecord) bool { return r.ID == e.record.ID })
	if index < 0 {
		return fmt.Errorf("entry %d missing from ticket %s", e.record.ID, t.persisted.Number)
	}

	now := t.store.now()
	updated := e.record
	updated.Body = e.body
	updated.UpdatedAt = now

	record := t.persisted
	record.Entries = slices.Clone(t.persisted.Entries)
	record.Entries[index] = updated
	record.UpdatedAt = now
	if err := t.store.files.write(t.store.ticketPath(record.Number), record); err != nil {
		return fmt.Errorf("saving entry %d of ticket %s: %w", e.record.ID, record.Number, err)
	}
	t.persisted = record
	e.record = updated
	e.saved = digestOf(e.body)
	return nil
}
