// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/host"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

func processCommand() *cli.Command {
	var (
		configPath string
		number     string
		entryID    int64
	)
	return &cli.Command{
		Name:    "process",
		Summary: "Run the command pipeline over a stored note",
		Description: `Run every command token over one note of a stored ticket, save the
result, and spool any response to the outbox. By default the newest
entry is processed. Unlike "trigger", the note's source is not checked,
so notes posted from other channels can be reprocessed by hand.

Exits with status 2 when a token aborts the run.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("process", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.StringVar(&number, "ticket", "", "ticket number (required)")
			flagSet.Int64Var(&entryID, "entry", 0, "entry ID (default: newest entry)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if number == "" {
				return fmt.Errorf("--ticket is required")
			}
			cfg, logger, err := setup(configPath, "process")
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ticket, err := store.Load(ctx, number)
			if err != nil {
				return err
			}
			note, err := findEntry(ctx, ticket, entryID)
			if err != nil {
				return err
			}
			if note.Kind() != host.KindNote {
				return fmt.Errorf("entry %d of ticket %s is a %s, not a note", note.ID(), number, note.Kind())
			}

			registry, err := newRegistry()
			if err != nil {
				return err
			}
			result, err := token.ProcessAll(ctx, registry, token.Env{
				Config: cfg,
				Ticket: ticket,
				Note:   note,
				Mailer: store.Outbox(),
				Logger: logger.With("ticket", number),
			})
			if err != nil {
				return err
			}
			return reportProcessed(stdout, registry, number, note.ID(), result)
		},
	}
}

// reportProcessed prints the outcome of a run and returns an ExitError
// with status 2 when a token aborted it. The failing token is named by
// decoding the result code against the registry, falling back to the
// name carried in the result.
func reportProcessed(w io.Writer, registry *token.Registry, number string, entryID int64, result token.Result) error {
	if !result.Failed() {
		fmt.Fprintf(w, "ticket %s entry %d: %s\n", number, entryID, describeResult(result))
		return nil
	}
	name, ok := registry.Decode(result.Code())
	if !ok {
		name = result.FailedToken
	}
	fmt.Fprintf(w, "ticket %s entry %d: token %q failed (code %d)\n", number, entryID, name, result.Code())
	return &cli.ExitError{Code: 2}
}

// findEntry returns the entry with the given ID, or the newest entry
// when id is zero.
func findEntry(ctx context.Context, ticket host.Ticket, id int64) (host.Entry, error) {
	if id == 0 {
		return host.Latest(ctx, ticket)
	}
	entries, err := ticket.Entries(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID() == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("ticket %s has no entry %d", ticket.Number(), id)
}
