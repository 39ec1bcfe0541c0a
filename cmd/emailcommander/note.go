// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/codec"
	"github.com/bureau-foundation/emailcommander/lib/host"
	"github.com/bureau-foundation/emailcommander/lib/ticketstore"
)

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:    "note",
		Summary: "Manage stored ticket entries",
		Subcommands: []*cli.Command{
			noteAddCommand(),
			noteShowCommand(),
		},
	}
}

func noteAddCommand() *cli.Command {
	var (
		configPath string
		number     string
		subject    string
		kind       string
		source     string
		poster     string
		markdown   bool
	)
	return &cli.Command{
		Name:    "add",
		Summary: "Append an entry to a stored ticket",
		Description: `Append an entry to a ticket's thread, reading the body from a file or
stdin. The ticket is created first when --subject is given and it does
not exist yet. Adding an entry does not run the command pipeline; use
"trigger" or "process" for that.`,
		Usage: "emailcommander note add --ticket N [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note add", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.StringVar(&number, "ticket", "", "ticket number (required)")
			flagSet.StringVar(&subject, "subject", "", "create the ticket with this subject if missing")
			flagSet.StringVar(&kind, "kind", string(host.KindNote), "entry kind: note, message, or response")
			flagSet.StringVar(&source, "source", host.SourceEmail, "entry source")
			flagSet.StringVar(&poster, "poster", "", "poster address")
			flagSet.BoolVar(&markdown, "markdown", false, "render the body from Markdown to HTML")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Record an emailed staff reply",
				Command:     `printf 'Replaced the disk.\n#public\n' | emailcommander note add --ticket 482913 --subject "Disk failure"`,
			},
		},
		Run: func(ctx context.Context, args []string) error {
			name, err := singleArg(args)
			if err != nil {
				return err
			}
			if number == "" {
				return fmt.Errorf("--ticket is required")
			}
			entryKind := host.EntryKind(kind)
			if !entryKind.Valid() {
				return fmt.Errorf("--kind must be note, message, or response, got %q", kind)
			}
			body, err := readBody(name, markdown)
			if err != nil {
				return err
			}

			cfg, _, err := setup(configPath, "note/add")
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ticket, err := store.Load(ctx, number)
			if errors.Is(err, ticketstore.ErrTicketNotFound) && subject != "" {
				ticket, err = store.Create(ctx, number, subject)
			}
			if err != nil {
				return err
			}
			entry, err := ticket.AddEntry(ctx, entryKind, source, poster, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "ticket %s entry %d\n", number, entry.ID())
			return nil
		},
	}
}

func noteShowCommand() *cli.Command {
	var (
		configPath string
		number     string
		raw        bool
	)
	return &cli.Command{
		Name:    "show",
		Summary: "Print a stored ticket's thread",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note show", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.StringVar(&number, "ticket", "", "ticket number (required)")
			flagSet.BoolVar(&raw, "raw", false, "print the stored record in CBOR diagnostic notation")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if number == "" {
				return fmt.Errorf("--ticket is required")
			}
			cfg, _, err := setup(configPath, "note/show")
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if raw {
				record, err := store.Raw(ctx, number)
				if err != nil {
					return err
				}
				diagnostic, err := codec.Diagnose(record)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, diagnostic)
				return nil
			}

			ticket, err := store.Load(ctx, number)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "ticket %s [%s] %s\n", ticket.Number(), ticket.Status(), ticket.Subject())
			entries, err := ticket.Entries(ctx)
			if err != nil {
				return err
			}
			for _, e := range entries {
				entry := e.(*ticketstore.Entry)
				fmt.Fprintf(stdout, "\n#%d %s via %s at %s\n%s\n",
					entry.ID(), entry.Kind(), entry.Source(), entry.CreatedAt(), entry.Body())
			}
			return nil
		},
	}
}
