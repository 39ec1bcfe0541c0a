// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the email
// command processor.
//
// Configuration is loaded from a single file specified by either the
// EMAILCOMMANDER_CONFIG environment variable (via [Load]) or a
// --config flag (via [LoadFile]). There is no automatic file search.
//
// The file carries the two plugin settings the command tokens read
// (auto_response and enable_close), the ticket store location, and
// logging options. Environment-specific sections (development,
// staging, production) override base values when [Config].Environment
// matches. Production turns auto_response off unless the file sets it
// at the top level or in the production section.
//
// Tokens read settings through [Config.Bool] so that a token can be
// written against a key name without this package knowing about it.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${EMAILCOMMANDER_ROOT}, and ${VAR:-default} patterns are
// expanded.
//
// This package depends on no other emailcommander packages.
package config
