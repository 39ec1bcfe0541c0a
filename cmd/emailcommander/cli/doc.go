// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the emailcommander binary:
// a tree of [Command] values with pflag flag sets, generated help,
// typo suggestions for commands and flags, and [NewLogger] for
// building the process logger from configuration.
package cli
