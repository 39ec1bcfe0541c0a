// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// emailcommander processes #command directives in help desk notes that
// arrived by email. It runs the token pipeline against a file-backed
// ticket store, replays recorded host events, and dry-runs note text.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/version"
)

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	if err := run(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root().Execute(ctx, os.Args[1:])
}

func root() *cli.Command {
	return &cli.Command{
		Name: "emailcommander",
		Description: `Process #commands written in help desk notes that arrived by email.

A command is a line holding only "#" and a keyword, e.g. "#public" or
"#private". Recognised commands are removed from the note and applied
to the ticket.`,
		Subcommands: []*cli.Command{
			tokensCommand(),
			scanCommand(),
			processCommand(),
			triggerCommand(),
			noteCommand(),
			outboxCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(context.Context, []string) error {
					fmt.Fprintf(stdout, "emailcommander %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{Description: "Dry-run a note body", Command: `printf 'Fixed.\n#private\n' | emailcommander scan`},
			{Description: "Replay a note-created event", Command: "emailcommander trigger --event note.jsonc"},
		},
	}
}
