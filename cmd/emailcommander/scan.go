// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/host"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

func scanCommand() *cli.Command {
	var (
		configPath   string
		markdown     bool
		autoResponse string
	)
	return &cli.Command{
		Name:    "scan",
		Summary: "Dry-run the command pipeline over note text",
		Description: `Run every command token over note text read from a file or stdin,
against an in-memory ticket. Prints the rewritten body, the token
result, and any response that would have been sent. Nothing is stored.`,
		Usage: "emailcommander scan [flags] [file]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("scan", pflag.ContinueOnError)
			addConfigFlag(flagSet, &configPath)
			flagSet.BoolVar(&markdown, "markdown", false, "render the input as Markdown before scanning")
			flagSet.StringVar(&autoResponse, "auto-response", "", `override auto_response ("true" or "false")`)
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "Scan a Markdown reply", Command: "emailcommander scan --markdown reply.md"},
		},
		Run: func(ctx context.Context, args []string) error {
			name, err := singleArg(args)
			if err != nil {
				return err
			}
			cfg, logger, err := setup(configPath, "scan")
			if err != nil {
				return err
			}
			switch autoResponse {
			case "":
			case "true", "false":
				cfg.AutoResponse = autoResponse == "true"
			default:
				return fmt.Errorf("--auto-response must be true or false, got %q", autoResponse)
			}
			body, err := readBody(name, markdown)
			if err != nil {
				return err
			}
			registry, err := newRegistry()
			if err != nil {
				return err
			}

			ticket := host.NewMemoryTicket("dry-run")
			note := ticket.AddEntry(host.KindNote, host.SourceEmail, body)
			mailer := &host.MemoryMailer{}
			result, err := token.ProcessAll(ctx, registry, token.Env{
				Config: cfg,
				Ticket: ticket,
				Note:   note,
				Mailer: mailer,
				Logger: logger,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "result: %s\n", describeResult(result))
			fmt.Fprintf(stdout, "changed: %v\n", note.Body() != body)
			fmt.Fprintf(stdout, "responses: %d\n", len(mailer.Sent()))
			fmt.Fprintf(stdout, "--- body ---\n%s", note.Body())
			if result.Failed() {
				return &cli.ExitError{Code: 2}
			}
			return nil
		},
	}
}

// describeResult formats a pipeline result with its integer code.
func describeResult(result token.Result) string {
	if result.Failed() {
		return fmt.Sprintf("failed at %q after %d token(s) (code %d): %v",
			result.FailedToken, result.Processed, result.Code(), result.Err)
	}
	return fmt.Sprintf("processed %d token(s) (code %d)", result.Processed, result.Code())
}
