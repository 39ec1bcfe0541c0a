// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commander connects the help desk's object-created events to
// the token pipeline.
//
// A [Commander] receives every created object. It only acts on notes
// that arrived by email: the object must be a ticket, the event data
// must say a note was added, and the newest thread entry must be an
// email-sourced internal note. Everything else is ignored.
//
// Events can also be read from JSONC files with [ParseEvent], which the
// CLI uses to replay host events against the file-backed store.
package commander
