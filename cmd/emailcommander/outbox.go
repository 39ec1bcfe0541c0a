// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
)

func outboxCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "outbox",
		Summary: "Inspect spooled responses",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Summary: "List responses waiting in the outbox",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("outbox list", pflag.ContinueOnError)
					addConfigFlag(flagSet, &configPath)
					return flagSet
				},
				Run: func(_ context.Context, args []string) error {
					if len(args) > 0 {
						return fmt.Errorf("unexpected arguments: %v", args)
					}
					cfg, _, err := setup(configPath, "outbox/list")
					if err != nil {
						return err
					}
					store, err := openStore(cfg)
					if err != nil {
						return err
					}
					defer store.Close()

					pending, err := store.Outbox().Pending()
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
					fmt.Fprintln(tw, "QUEUED\tTICKET\tENTRY\tSUBJECT\tBYTES")
					for _, response := range pending {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n",
							response.QueuedAt, response.Ticket, response.Entry, response.Subject, len(response.Body))
					}
					return tw.Flush()
				},
			},
		},
	}
}
