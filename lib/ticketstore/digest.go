// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import "github.com/zeebo/blake3"

// digest is a BLAKE3 hash of a persisted value.
type digest [32]byte

// digestOf hashes fields with a zero-byte separator so that
// ("ab", "c") and ("a", "bc") differ.
func digestOf(fields ...string) digest {
	hasher := blake3.New()
	for i, field := range fields {
		if i > 0 {
			hasher.Write([]byte{0})
		}
		hasher.Write([]byte(field))
	}
	var sum digest
	copy(sum[:], hasher.Sum(nil))
	return sum
}
