// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import "errors"

// ErrNilToken is returned when registering a nil token.
var ErrNilToken = errors.New("token is nil")

// Registry holds the tokens of one processor. Build it once at startup
// and pass it to [ProcessAll]; it is not safe to register tokens while
// runs are in progress.
//
// Registering the same token twice is not detected. It will run twice.
type Registry struct {
	tokens []Token
}

// NewRegistry returns a registry holding the given tokens in order.
func NewRegistry(tokens ...Token) (*Registry, error) {
	registry := &Registry{}
	for _, t := range tokens {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register appends a token.
func (r *Registry) Register(t Token) error {
	if t == nil {
		return ErrNilToken
	}
	r.tokens = append(r.tokens, t)
	return nil
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int { return len(r.tokens) }

// All returns the tokens in registration order. The slice is a copy.
func (r *Registry) All() []Token {
	return append([]Token(nil), r.tokens...)
}

// Sorted returns the tokens in run order. The slice is a copy.
func (r *Registry) Sorted() []Token {
	sorted := r.All()
	Sort(sorted)
	return sorted
}

// Decode maps a code from [Result.Code] back to the failing token's
// name by indexing the sorted registry. ok is false for success codes
// and for codes that do not fit the current registry.
func (r *Registry) Decode(code int) (name string, ok bool) {
	if code >= 0 {
		return "", false
	}
	sorted := r.Sorted()
	index := -code - 1
	if index >= len(sorted) {
		return "", false
	}
	return sorted[index].Name(), true
}
