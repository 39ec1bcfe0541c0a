// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the wall clock so that timestamps written by
// the ticket store and the outbox are deterministic in tests.
// Production code injects [Real]; tests inject [Fake].
package clock
