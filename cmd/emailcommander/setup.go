// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/notebody"
	"github.com/bureau-foundation/emailcommander/lib/ticketstore"
	"github.com/bureau-foundation/emailcommander/lib/token"
	"github.com/bureau-foundation/emailcommander/lib/token/visibility"
)

// newRegistry returns the registry of every built-in command token.
func newRegistry() (*token.Registry, error) {
	return token.NewRegistry(
		visibility.New(),
	)
}

// addConfigFlag binds --config on flagSet.
func addConfigFlag(flagSet *pflag.FlagSet, path *string) {
	flagSet.StringVar(path, "config", "", "config file (default: $"+config.EnvConfigPath+", then built-in defaults)")
}

// loadConfig reads the config file named by path, or by the
// EMAILCOMMANDER_CONFIG variable, or falls back to defaults, and
// validates the result.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvConfigPath) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the process logger.
func setup(configPath, command string) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.With("command", command), nil
}

func openStore(cfg *config.Config) (*ticketstore.Store, error) {
	return ticketstore.Open(ticketstore.Options{
		Root:        cfg.Store.Root,
		Compression: cfg.Store.Compression,
	})
}

// readBody reads note text from the named file, or from stdin when
// name is "" or "-". With markdown set the text is rendered to HTML.
func readBody(name string, markdown bool) (string, error) {
	var data []byte
	var err error
	if name == "" || name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("reading note body: %w", err)
	}
	if !markdown {
		return string(data), nil
	}
	return notebody.FromMarkdown(string(data))
}

// singleArg returns the only positional argument, "" when there is
// none, or an error when there are more.
func singleArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one argument, got %d", len(args))
	}
}
