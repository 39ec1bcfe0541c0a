// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notebody renders Markdown note text into the HTML form that
// email-sourced notes take once the help desk has stored them.
//
// Line breaks inside a paragraph become <br /> and paragraphs are
// wrapped in <p>...</p>, so a command written on its own line in
// Markdown ends up between boundaries the command pattern recognises.
// A line like "# public" (with a space) is an ATX heading in Markdown
// and is rendered as <h1>; write "#public" for a command.
package notebody
