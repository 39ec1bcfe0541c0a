// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for files at rest.
//
// Ticket records and spooled responses are stored as CBOR. The encoder
// uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Saving an
// unchanged ticket therefore rewrites identical bytes, which keeps
// content digests stable.
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// Record types carry `cbor` struct tags. They never travel as JSON.
package codec
