// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/host"
)

// Token is one inline command. Implementations are immutable after
// construction and are shared by every run.
type Token interface {
	// RunIndex orders tokens; lower values run first.
	RunIndex() int

	// Name is a stable display name used for ordering ties and in
	// failure reports.
	Name() string

	// Pattern returns the compiled command pattern, normally built
	// with [BuildPattern]. It must define the "lead" and "trail"
	// groups.
	Pattern() *regexp.Regexp

	// ProcessMatch handles one occurrence of the command. captures
	// holds every named group except the boundary groups. The return
	// value replaces the command text between the preserved
	// boundaries; return "" when the command should simply vanish.
	ProcessMatch(captures map[string]string, flags *Flags, env Env) string

	// PerformActions runs once after every occurrence has been
	// handled and the note body updated. Returning false aborts the
	// run at this token.
	PerformActions(ctx context.Context, flags *Flags, env Env) bool
}

// Preparer is implemented by tokens that seed the flag bag before the
// note is scanned.
type Preparer interface {
	BeforeProcess(flags *Flags, env Env)
}

// Env carries the collaborators of one run. Tokens must not retain it
// after the run.
type Env struct {
	Config *config.Config
	Ticket host.Ticket
	Note   host.Entry

	// Mailer is nil when the host has no outbound mail configured.
	Mailer host.Mailer

	Logger *slog.Logger
}

// Identity returns the implementation identity of a token: its
// dynamic Go type. It is the final tie-break in [Compare].
func Identity(t Token) string {
	return fmt.Sprintf("%T", t)
}

// Compare orders tokens by run index, then name, then implementation
// identity. A nil token sorts before any token.
func Compare(a, b Token) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(a.RunIndex(), b.RunIndex()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
		return c
	}
	return cmp.Compare(Identity(a), Identity(b))
}

// Sort sorts tokens in place by [Compare]. The sort is stable so
// tokens that compare equal keep their registration order.
func Sort(tokens []Token) {
	slices.SortStableFunc(tokens, Compare)
}
