// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commander

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/host"
	"github.com/bureau-foundation/emailcommander/lib/token"
	"github.com/bureau-foundation/emailcommander/lib/token/visibility"
)

// refusingToken matches "#refuse" and always fails its actions.
type refusingToken struct{}

func (refusingToken) RunIndex() int { return 1 }
func (refusingToken) Name() string  { return "Refuse" }
func (refusingToken) Pattern() *regexp.Regexp {
	return token.MustBuildPattern("refuse")
}
func (refusingToken) ProcessMatch(map[string]string, *token.Flags, token.Env) string { return "" }
func (refusingToken) PerformActions(context.Context, *token.Flags, token.Env) bool   { return false }

func newCommander(t *testing.T, tokens ...token.Token) (*Commander, *host.MemoryMailer, *bytes.Buffer) {
	t.Helper()
	registry, err := token.NewRegistry(tokens...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	var logs bytes.Buffer
	mailer := &host.MemoryMailer{}
	cfg := config.Default()
	cfg.AutoResponse = false
	return &Commander{
		Registry: registry,
		Config:   cfg,
		Mailer:   mailer,
		Logger:   slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, mailer, &logs
}

func noteEvent() map[string]any { return map[string]any{"type": EventTypeNote} }

func TestObjectCreated_ProcessesEmailNote(t *testing.T) {
	c, mailer, logs := newCommander(t, visibility.New())
	ticket := host.NewMemoryTicket("482913")
	ticket.AddEntry(host.KindMessage, "Web", "My laptop will not boot.")
	note := ticket.AddEntry(host.KindNote, host.SourceEmail, "Replaced the SSD.\n#public")

	outcome, err := c.ObjectCreated(context.Background(), ticket, noteEvent())
	if err != nil {
		t.Fatalf("ObjectCreated: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Errorf("outcome = %s, want processed", outcome)
	}
	if note.PersistedBody() != "Replaced the SSD.\n" {
		t.Errorf("persisted body = %q", note.PersistedBody())
	}
	if len(mailer.Sent()) != 1 {
		t.Errorf("sent = %d, want 1", len(mailer.Sent()))
	}
	if !strings.Contains(logs.String(), "category=emailcommander.process") {
		t.Errorf("log lacks category: %s", logs.String())
	}
}

func TestObjectCreated_Ignored(t *testing.T) {
	tests := []struct {
		name   string
		object func() any
		data   map[string]any
	}{
		{
			name:   "not a ticket",
			object: func() any { return "a task" },
			data:   noteEvent(),
		},
		{
			name: "not a note event",
			object: func() any {
				ticket := host.NewMemoryTicket("1")
				ticket.AddEntry(host.KindNote, host.SourceEmail, "#public")
				return ticket
			},
			data: map[string]any{"type": "message"},
		},
		{
			name: "missing type",
			object: func() any {
				ticket := host.NewMemoryTicket("1")
				ticket.AddEntry(host.KindNote, host.SourceEmail, "#public")
				return ticket
			},
			data: nil,
		},
		{
			name: "latest entry is a message",
			object: func() any {
				ticket := host.NewMemoryTicket("1")
				ticket.AddEntry(host.KindNote, host.SourceEmail, "#public")
				ticket.AddEntry(host.KindMessage, host.SourceEmail, "#public")
				return ticket
			},
			data: noteEvent(),
		},
		{
			name: "note posted from the web",
			object: func() any {
				ticket := host.NewMemoryTicket("1")
				ticket.AddEntry(host.KindNote, "Web", "#public")
				return ticket
			},
			data: noteEvent(),
		},
		{
			name:   "empty thread",
			object: func() any { return host.NewMemoryTicket("1") },
			data:   noteEvent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mailer, _ := newCommander(t, visibility.New())
			object := tt.object()

			outcome, err := c.ObjectCreated(context.Background(), object, tt.data)
			if err != nil {
				t.Fatalf("ObjectCreated: %v", err)
			}
			if outcome != OutcomeIgnored {
				t.Errorf("outcome = %s, want ignored", outcome)
			}
			if len(mailer.Sent()) != 0 {
				t.Error("ignored event sent a response")
			}
			if ticket, ok := object.(*host.MemoryTicket); ok {
				entries, _ := ticket.Entries(context.Background())
				for _, entry := range entries {
					if entry.Body() != "#public" {
						t.Errorf("ignored event rewrote entry %d: %q", entry.ID(), entry.Body())
					}
				}
			}
		})
	}
}

func TestObjectCreated_TokenFailure(t *testing.T) {
	c, mailer, logs := newCommander(t, visibility.New(), refusingToken{})
	ticket := host.NewMemoryTicket("77")
	note := ticket.AddEntry(host.KindNote, host.SourceEmail, "#public")

	outcome, err := c.ObjectCreated(context.Background(), ticket, noteEvent())
	if err != nil {
		t.Fatalf("ObjectCreated: %v", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want failed", outcome)
	}
	if note.Saves != 0 || len(mailer.Sent()) != 0 {
		t.Error("failed run must not save or send")
	}
	output := logs.String()
	if !strings.Contains(output, "token=Refuse") || !strings.Contains(output, "processed_before=0") {
		t.Errorf("failure log = %s", output)
	}
}

func TestObjectCreated_SaveFailure(t *testing.T) {
	c, _, _ := newCommander(t, visibility.New())
	ticket := host.NewMemoryTicket("78")
	note := ticket.AddEntry(host.KindNote, host.SourceEmail, "#private")
	note.SaveError = errors.New("disk full")

	outcome, err := c.ObjectCreated(context.Background(), ticket, noteEvent())
	if !errors.Is(err, note.SaveError) {
		t.Fatalf("expected save error, got %v", err)
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want failed", outcome)
	}
}

func TestObjectCreated_NoRegistry(t *testing.T) {
	c := &Commander{}
	if _, err := c.ObjectCreated(context.Background(), host.NewMemoryTicket("1"), noteEvent()); err == nil {
		t.Error("expected error without a registry")
	}
}
