// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/emailcommander/lib/config"
)

// NewLogger creates the process logger. With format "auto" it uses
// slog.TextHandler when output is a terminal and slog.JSONHandler
// otherwise, so piped output stays machine-parseable.
func NewLogger(settings config.LogConfig, output *os.File) (*slog.Logger, error) {
	return newLogger(settings, output, term.IsTerminal(int(output.Fd())))
}

func newLogger(settings config.LogConfig, output io.Writer, terminal bool) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", settings.Level, err)
	}
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch settings.Format {
	case "text":
		handler = slog.NewTextHandler(output, options)
	case "json":
		handler = slog.NewJSONHandler(output, options)
	case "auto", "":
		if terminal {
			handler = slog.NewTextHandler(output, options)
		} else {
			handler = slog.NewJSONHandler(output, options)
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", settings.Format)
	}
	return slog.New(handler), nil
}
