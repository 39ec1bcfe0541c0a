// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token implements the inline command processor for inbound
// email notes.
//
// A [Token] is one command ("#public", "#private", ...). It supplies a
// pattern built with [BuildPattern], a run index that orders it
// against other tokens, and lifecycle methods: an optional
// [Preparer.BeforeProcess] that seeds the run's [Flags], ProcessMatch
// called once per occurrence in the note body, and PerformActions
// called once after the body has been rewritten.
//
// [Process] drives a single token over a note. [ProcessAll] drives
// every token of a [Registry] in sorted order over one (ticket, note)
// pair, saves what changed through the host collaborator, runs the
// callbacks tokens queued with [Flags.Defer], and saves again if a
// callback left something dirty.
//
// A command is only recognized at a boundary: it must start at the
// start of the body, after a newline, or right after an opening <p>
// tag, and it must end at the end of the body, a newline, a <br />, or
// a closing </p>. The boundary text is kept when the command is
// removed, so the rewritten body keeps its line and paragraph
// structure.
//
// Failures are reported through [Result]. Result.Code preserves the
// integer contract older callers rely on: the number of tokens
// processed, or minus the 1-based position of the failing token in
// the sorted registry, which [Registry.Decode] maps back to a name.
package token
