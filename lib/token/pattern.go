// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"regexp"
)

// Capture group names used by [BuildPattern]. LeadGroup and TrailGroup
// hold the boundary text around a command and are never passed to
// ProcessMatch. KeywordGroup holds the matched command keyword.
const (
	LeadGroup    = "lead"
	TrailGroup   = "trail"
	KeywordGroup = "keyword"
)

// patternPrefix matches the leading boundary (start of text, a newline,
// or an opening paragraph tag with optional attributes), optional
// whitespace, and the command marker. ^ and $ are whole-text anchors:
// the pattern is compiled without the multi-line flag.
const patternPrefix = `(?P<` + LeadGroup + `>^|\n|<p(?:\s+[^>]*)?>)\s*#\s*(?P<` + KeywordGroup + `>`

// patternSuffix matches trailing horizontal whitespace and the trailing
// boundary (end of text, a newline, a self-closing line break, or a
// closing paragraph tag).
const patternSuffix = `)[ \t]*(?P<` + TrailGroup + `>$|\r?\n|<br\s*/>|</p>)`

// BuildPattern compiles the full command pattern around a keyword
// alternation such as "public|private". The alternation may contain
// its own named groups; they are passed to ProcessMatch alongside
// "keyword".
func BuildPattern(alternation string) (*regexp.Regexp, error) {
	if alternation == "" {
		return nil, fmt.Errorf("building command pattern: empty keyword alternation")
	}
	pattern, err := regexp.Compile(patternPrefix + alternation + patternSuffix)
	if err != nil {
		return nil, fmt.Errorf("building command pattern for %q: %w", alternation, err)
	}
	return pattern, nil
}

// MustBuildPattern is like [BuildPattern] but panics on error. Use it
// for package-level token definitions with constant alternations.
func MustBuildPattern(alternation string) *regexp.Regexp {
	pattern, err := BuildPattern(alternation)
	if err != nil {
		panic(err)
	}
	return pattern
}
