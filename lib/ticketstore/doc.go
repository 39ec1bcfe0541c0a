// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketstore is a file-backed ticket store implementing the
// host collaborator interfaces, so the command processor can run end
// to end from the command line.
//
// Each ticket is one file under <root>/tickets/, holding the ticket
// fields and its whole thread as a CBOR record (lib/codec). Files start
// with a one-byte compression tag followed by the payload, which is
// zstd-compressed unless the store was opened with compression "none".
// Writes go to a temporary file that is renamed into place.
//
// Dirty tracking compares BLAKE3 digests of the current values with
// digests taken at load or last save. Setting a body back to its saved
// text therefore leaves the entry clean.
//
// [Outbox] implements host.Mailer by spooling responses to
// <root>/outbox/ for a delivery agent outside this module.
//
// A Store is not safe for concurrent mutation of the same ticket.
package ticketstore
