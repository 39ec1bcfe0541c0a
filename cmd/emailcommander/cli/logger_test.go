// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/emailcommander/lib/config"
)

func TestNewLogger_Format(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		terminal bool
		json     bool
	}{
		{"auto on terminal", "auto", true, false},
		{"auto piped", "auto", false, true},
		{"text forced", "text", false, false},
		{"json forced", "json", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			logger, err := newLogger(config.LogConfig{Level: "info", Format: tt.format}, &buffer, tt.terminal)
			if err != nil {
				t.Fatalf("newLogger: %v", err)
			}
			logger.Info("hello", "category", "emailcommander.test")
			isJSON := strings.HasPrefix(buffer.String(), "{")
			if isJSON != tt.json {
				t.Errorf("json = %v, want %v: %s", isJSON, tt.json, buffer.String())
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "text"}, &buffer, false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(buffer.String(), "dropped") || !strings.Contains(buffer.String(), "kept") {
		t.Errorf("output = %s", buffer.String())
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := newLogger(config.LogConfig{Level: "loud", Format: "text"}, &bytes.Buffer{}, false); err == nil {
		t.Error("expected error for bad level")
	}
	if _, err := newLogger(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{}, false); err == nil {
		t.Error("expected error for bad format")
	}
}
