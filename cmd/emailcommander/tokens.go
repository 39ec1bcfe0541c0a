// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

func tokensCommand() *cli.Command {
	return &cli.Command{
		Name:        "tokens",
		Summary:     "List registered command tokens in run order",
		Description: "List every registered command token in the order the pipeline runs them.\nThe POSITION column is the value a failure code refers to.",
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			registry, err := newRegistry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "POSITION\tRUN INDEX\tNAME\tIMPLEMENTATION\tPATTERN")
			for i, t := range registry.Sorted() {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", i+1, t.RunIndex(), t.Name(), token.Identity(t), t.Pattern())
			}
			return tw.Flush()
		},
	}
}
