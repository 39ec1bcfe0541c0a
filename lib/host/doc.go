// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package host defines the narrow interfaces through which the command
// processor reaches the ticketing system it is embedded in.
//
// The processor never owns ticket storage. It borrows a [Ticket] and
// one of its thread [Entry] values for the duration of a run, mutates
// the entry body in place, and writes changes back through the
// collaborator's own Save methods. Dirty tracking belongs to the
// collaborator: the processor only reads Dirty to decide whether a
// save is needed.
//
// [Memory] is a complete in-process implementation. The CLI uses it
// for dry runs and the other packages use it in tests. lib/ticketstore
// provides the file-backed implementation.
//
// This package depends on no other emailcommander packages.
package host
