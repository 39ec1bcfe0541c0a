// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package visibility implements the #public / #private command.
//
// An inbound email note is sent to the ticket owner as a response when
// it contains "#public", and kept internal when it contains "#private"
// or "#internal". Without either command the auto_response setting
// decides. When several commands appear, the last one wins.
package visibility

import (
	"context"
	"regexp"

	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

// RunIndex places the visibility decision after ordinary commands so
// that they can still change the note before it is sent.
const RunIndex = 10001

// Name is the display name of the token.
const Name = "Public/Private"

var pattern = token.MustBuildPattern(`public|private|internal`)

// Token is the visibility command. The zero value is ready to use.
type Token struct{}

// New returns the visibility token.
func New() *Token { return &Token{} }

func (*Token) RunIndex() int { return RunIndex }

func (*Token) Name() string { return Name }

func (*Token) Pattern() *regexp.Regexp { return pattern }

// BeforeProcess seeds the respond flag from the auto_response setting.
func (*Token) BeforeProcess(flags *token.Flags, env token.Env) {
	flags.SetRespond(env.Config != nil && env.Config.Bool(config.AutoResponse))
}

// ProcessMatch sets the respond flag from the keyword and removes the
// command from the body.
func (*Token) ProcessMatch(captures map[string]string, flags *token.Flags, _ token.Env) string {
	flags.SetRespond(captures[token.KeywordGroup] == "public")
	return ""
}

// PerformActions queues the response callback when the note is public.
func (t *Token) PerformActions(_ context.Context, flags *token.Flags, _ token.Env) bool {
	if flags.Respond() {
		flags.Defer(token.Deferred{Token: Name, Invoke: t.sendResponse})
	}
	return true
}

// sendResponse hands the rewritten note to the mailer. It changes
// nothing on the note or ticket.
func (*Token) sendResponse(ctx context.Context, _ *token.Flags, env token.Env) error {
	if env.Mailer == nil {
		if env.Logger != nil {
			env.Logger.Debug("no mailer configured, response not sent",
				"category", "emailcommander.visibility",
				"ticket", env.Ticket.Number(),
				"note", env.Note.ID(),
			)
		}
		return nil
	}
	return env.Mailer.SendResponse(ctx, env.Ticket, env.Note)
}
