// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/commander"
)

func triggerCommand() *cli.Command {
	var (
		configPath string
		eventPath  string
	)
	return &cli.Command{
		Name:    "trigger",
		Summary: "Replay an object-created event from a JSONC file",
		Description: `Deliver a recorded object-created event to the commander, exactly as
the help desk would. Only note events for email-sourced notes are
processed; everything else is reported as ignored.

Exits with status 2 when a token aborts the run.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("trigger", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.StringVar(&eventPath, "event", "", "JSONC event file (required)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Event file contents",
				Command:     `{"object": "ticket", "ticket": "482913", "data": {"type": "note"}}`,
			},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if eventPath == "" {
				return fmt.Errorf("--event is required")
			}
			data, err := os.ReadFile(eventPath)
			if err != nil {
				return fmt.Errorf("reading event: %w", err)
			}
			event, err := commander.ParseEvent(data)
			if err != nil {
				return err
			}

			cfg, logger, err := setup(configPath, "trigger")
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var object any = event.Object
			if event.Object == commander.ObjectTicket {
				ticket, err := store.Load(ctx, event.Ticket)
				if err != nil {
					return err
				}
				object = ticket
			}

			registry, err := newRegistry()
			if err != nil {
				return err
			}
			c := &commander.Commander{
				Registry: registry,
				Config:   cfg,
				Mailer:   store.Outbox(),
				Logger:   logger,
			}
			outcome, err := c.ObjectCreated(ctx, object, event.Data)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\n", outcome)
			if outcome == commander.OutcomeFailed {
				return &cli.ExitError{Code: 2}
			}
			return nil
		},
	}
}
