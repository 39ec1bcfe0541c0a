// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notebody

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Table,
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
			),
		)
	})
	return markdownInstance
}

// FromMarkdown converts Markdown source to an HTML note body. Raw HTML
// in the source is dropped.
func FromMarkdown(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buffer bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("rendering note markdown: %w", err)
	}
	return buffer.String(), nil
}
