// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// logCategory is attached to every log record emitted by this package.
const logCategory = "emailcommander.token"

// Process runs one token over the note in env: BeforeProcess, then
// every match is handed to ProcessMatch and rewritten in place, then
// PerformActions. The note body is only replaced when at least one
// match was found.
//
// Returns an error wrapping [ErrMatchEngine] when the pattern cannot be
// applied, or [ErrActionFailed] when PerformActions returns false.
func Process(ctx context.Context, t Token, flags *Flags, env Env) error {
	logger := loggerFor(env).With("token", t.Name())

	if preparer, ok := t.(Preparer); ok {
		preparer.BeforeProcess(flags, env)
	}

	body := env.Note.Body()
	rewritten, matches, err := rewrite(t, body, flags, env)
	if err != nil {
		return err
	}

	if matches > 0 {
		env.Note.SetBody(rewritten)
		logger.Debug("command tokens stripped",
			"category", logCategory,
			"ticket", env.Ticket.Number(),
			"note", env.Note.ID(),
			"matches", matches,
		)
	}

	if !t.PerformActions(ctx, flags, env) {
		return fmt.Errorf("token %q: %w", t.Name(), ErrActionFailed)
	}
	return nil
}

// rewrite replaces every match of the token's pattern in body with the
// preserved lead boundary, the ProcessMatch result, and the preserved
// trail boundary.
func rewrite(t Token, body string, flags *Flags, env Env) (string, int, error) {
	pattern := t.Pattern()
	if pattern == nil {
		return "", 0, fmt.Errorf("token %q: no pattern: %w", t.Name(), ErrMatchEngine)
	}
	leadIndex := pattern.SubexpIndex(LeadGroup)
	trailIndex := pattern.SubexpIndex(TrailGroup)
	if leadIndex < 0 || trailIndex < 0 {
		return "", 0, fmt.Errorf("token %q: pattern %q lacks boundary groups: %w",
			t.Name(), pattern.String(), ErrMatchEngine)
	}

	matches := pattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, 0, nil
	}

	names := pattern.SubexpNames()
	var builder strings.Builder
	builder.Grow(len(body))
	last := 0
	for _, match := range matches {
		captures := make(map[string]string)
		for i, name := range names {
			if i == 0 || name == "" || i == leadIndex || i == trailIndex {
				continue
			}
			start, end := match[2*i], match[2*i+1]
			if start < 0 {
				captures[name] = ""
				continue
			}
			captures[name] = body[start:end]
		}

		replacement := t.ProcessMatch(captures, flags, env)

		builder.WriteString(body[last:match[0]])
		builder.WriteString(group(body, match, leadIndex))
		builder.WriteString(replacement)
		builder.WriteString(group(body, match, trailIndex))
		last = match[1]
	}
	builder.WriteString(body[last:])

	return builder.String(), len(matches), nil
}

// group returns the text of submatch index in match, or "" when the
// group did not participate.
func group(body string, match []int, index int) string {
	start, end := match[2*index], match[2*index+1]
	if start < 0 {
		return ""
	}
	return body[start:end]
}

func loggerFor(env Env) *slog.Logger {
	if env.Logger != nil {
		return env.Logger
	}
	return slog.New(slog.DiscardHandler)
}
