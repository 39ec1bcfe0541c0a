// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bureau-foundation/emailcommander/cmd/emailcommander/cli"
	"github.com/bureau-foundation/emailcommander/lib/config"
	"github.com/bureau-foundation/emailcommander/lib/ticketstore"
	"github.com/bureau-foundation/emailcommander/lib/token"
)

// harness points the binary at a fresh store and captures stdout.
type harness struct {
	t      *testing.T
	dir    string
	output bytes.Buffer
}

func newHarness(t *testing.T, autoResponse bool) *harness {
	t.Helper()
	h := &harness{t: t, dir: t.TempDir()}

	configYAML := "auto_response: " + strconv.FormatBool(autoResponse) + "\n" +
		"store:\n  root: " + filepath.Join(h.dir, "store") + "\n  compression: zstd\n" +
		"log:\n  level: error\n  format: json\n"
	configPath := h.write("emailcommander.yaml", configYAML)
	t.Setenv(config.EnvConfigPath, configPath)

	previousOut, previousIn := stdout, stdin
	stdout = &h.output
	t.Cleanup(func() { stdout, stdin = previousOut, previousIn })
	return h
}

func (h *harness) write(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// run executes the CLI and returns what it printed.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.output.Reset()
	err := root().Execute(context.Background(), args)
	return h.output.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	output, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v", args, err)
	}
	return output
}

func TestTokens(t *testing.T) {
	h := newHarness(t, true)
	output := h.mustRun("tokens")
	for _, want := range []string{"POSITION", "10001", "Public/Private", "*visibility.Token"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name         string
		autoResponse bool
		body         string
		args         []string
		wantBody     string
		wantSent     string
	}{
		{
			name:     "private stripped",
			body:     "Fixed.\n#private\n",
			wantBody: "Fixed.\n\n",
			wantSent: "responses: 0",
		},
		{
			name:     "public stripped and sent",
			body:     "Fixed.\n#public\n",
			wantBody: "Fixed.\n\n",
			wantSent: "responses: 1",
		},
		{
			name:         "auto response without command",
			autoResponse: true,
			body:         "Fixed.\n",
			wantBody:     "Fixed.\n",
			wantSent:     "responses: 1",
		},
		{
			name:         "flag overrides config",
			autoResponse: true,
			body:         "Fixed.\n",
			args:         []string{"--auto-response", "false"},
			wantBody:     "Fixed.\n",
			wantSent:     "responses: 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.autoResponse)
			path := h.write("note.txt", tt.body)

			output := h.mustRun(append(append([]string{"scan"}, tt.args...), path)...)
			if !strings.Contains(output, "processed 1 token(s) (code 1)") {
				t.Errorf("result line missing:\n%s", output)
			}
			if !strings.Contains(output, tt.wantSent) {
				t.Errorf("want %q:\n%s", tt.wantSent, output)
			}
			if !strings.HasSuffix(output, "--- body ---\n"+tt.wantBody) {
				t.Errorf("body mismatch, want %q:\n%s", tt.wantBody, output)
			}
		})
	}
}

func TestScan_StdinMarkdown(t *testing.T) {
	h := newHarness(t, false)
	stdin = strings.NewReader("Rebooted.\n#public\n")

	output := h.mustRun("scan", "--markdown")
	if !strings.Contains(output, "changed: true") || !strings.Contains(output, "responses: 1") {
		t.Errorf("output:\n%s", output)
	}
	if strings.Contains(output, "#public") {
		t.Errorf("command left in body:\n%s", output)
	}
	if !strings.Contains(output, "<br />") {
		t.Errorf("line break markup should be preserved:\n%s", output)
	}
}

func TestScan_BadAutoResponse(t *testing.T) {
	h := newHarness(t, false)
	path := h.write("note.txt", "x")
	if _, err := h.run("scan", "--auto-response", "maybe", path); err == nil {
		t.Error("expected error")
	}
}

func TestTriggerEndToEnd(t *testing.T) {
	h := newHarness(t, false)
	body := h.write("reply.txt", "Replaced the disk.\n#public\n")
	h.mustRun("note", "add", "--ticket", "482913", "--subject", "Disk failure", body)
	event := h.write("event.jsonc", `{
		// staff reply arrived by email
		"object": "ticket",
		"ticket": "482913",
		"data": {"type": "note"},
	}`)

	if output := h.mustRun("trigger", "--event", event); output != "processed\n" {
		t.Errorf("trigger output = %q", output)
	}

	thread := h.mustRun("note", "show", "--ticket", "482913")
	if strings.Contains(thread, "#public") || !strings.Contains(thread, "Replaced the disk.") {
		t.Errorf("stored thread:\n%s", thread)
	}

	raw := h.mustRun("note", "show", "--ticket", "482913", "--raw")
	if !strings.Contains(raw, `"subject": "Disk failure"`) {
		t.Errorf("raw record:\n%s", raw)
	}

	outbox := h.mustRun("outbox", "list")
	if !strings.Contains(outbox, "482913") || !strings.Contains(outbox, "Disk failure") {
		t.Errorf("outbox:\n%s", outbox)
	}

	// Redelivery finds no command left in the stored note.
	if output := h.mustRun("trigger", "--event", event); output != "processed\n" {
		t.Errorf("second trigger output = %q", output)
	}
}

func TestTrigger_IgnoresWebNotes(t *testing.T) {
	h := newHarness(t, true)
	body := h.write("reply.txt", "#private\n")
	h.mustRun("note", "add", "--ticket", "9", "--subject", "s", "--source", "Web", body)
	event := h.write("event.jsonc", `{"object": "ticket", "ticket": "9", "data": {"type": "note"}}`)

	if output := h.mustRun("trigger", "--event", event); output != "ignored\n" {
		t.Errorf("trigger output = %q", output)
	}
	if thread := h.mustRun("note", "show", "--ticket", "9"); !strings.Contains(thread, "#private") {
		t.Errorf("web note should be untouched:\n%s", thread)
	}
}

func TestTrigger_NonTicketObject(t *testing.T) {
	h := newHarness(t, true)
	event := h.write("event.jsonc", `{"object": "task", "data": {"type": "note"}}`)
	if output := h.mustRun("trigger", "--event", event); output != "ignored\n" {
		t.Errorf("trigger output = %q", output)
	}
}

func TestProcess(t *testing.T) {
	h := newHarness(t, true)
	body := h.write("reply.txt", "Escalated to vendor.\n#internal\n")
	h.mustRun("note", "add", "--ticket", "31", "--subject", "s", "--source", "Web", body)

	output := h.mustRun("process", "--ticket", "31")
	if !strings.Contains(output, "ticket 31 entry 1: processed 1 token(s)") {
		t.Errorf("output = %q", output)
	}
	if outbox := h.mustRun("outbox", "list"); strings.Contains(outbox, "31") {
		t.Errorf("internal note was spooled:\n%s", outbox)
	}
}

func TestProcess_Errors(t *testing.T) {
	h := newHarness(t, true)
	if _, err := h.run("process"); err == nil {
		t.Error("expected error without --ticket")
	}
	if _, err := h.run("process", "--ticket", "404"); !errors.Is(err, ticketstore.ErrTicketNotFound) {
		t.Errorf("missing ticket: %v", err)
	}

	body := h.write("msg.txt", "hello")
	h.mustRun("note", "add", "--ticket", "32", "--subject", "s", "--kind", "message", body)
	if _, err := h.run("process", "--ticket", "32"); err == nil {
		t.Error("expected error processing a message entry")
	}
	if _, err := h.run("process", "--ticket", "32", "--entry", "7"); err == nil {
		t.Error("expected error for a missing entry")
	}
}

func TestNoteAdd_RequiresExistingTicketWithoutSubject(t *testing.T) {
	h := newHarness(t, true)
	stdin = strings.NewReader("hello")
	if _, err := h.run("note", "add", "--ticket", "50"); !errors.Is(err, ticketstore.ErrTicketNotFound) {
		t.Errorf("err = %v", err)
	}
	stdin = strings.NewReader("hello")
	if _, err := h.run("note", "add", "--ticket", "50", "--kind", "memo", "--subject", "s"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t, true)
	if output := h.mustRun("version"); !strings.HasPrefix(output, "emailcommander ") {
		t.Errorf("output = %q", output)
	}
}


func TestReportProcessed(t *testing.T) {
	registry, err := newRegistry()
	if err != nil {
		t.Fatalf("newRegistry: %v", err)
	}

	tests := []struct {
		name     string
		result   token.Result
		wantExit bool
		want     string
	}{
		{
			name:   "success",
			result: token.Result{Processed: 1, Attempted: 1},
			want:   "ticket 5 entry 2: processed 1 token(s) (code 1)\n",
		},
		{
			name: "failure decoded from the registry",
			result: token.Result{
				Attempted:   1,
				FailedToken: "Public/Private",
				Err:         token.ErrActionFailed,
			},
			wantExit: true,
			want:     "ticket 5 entry 2: token \"Public/Private\" failed (code -1)\n",
		},
		{
			name: "failure code outside the registry",
			result: token.Result{
				Processed:   4,
				Attempted:   5,
				FailedToken: "Escalate",
				Err:         token.ErrActionFailed,
			},
			wantExit: true,
			want:     "ticket 5 entry 2: token \"Escalate\" failed (code -5)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			err := reportProcessed(&output, registry, "5", 2, tt.result)

			var exitErr *cli.ExitError
			if gotExit := errors.As(err, &exitErr); gotExit != tt.wantExit {
				t.Fatalf("exit error = %v, want exit %v", err, tt.wantExit)
			}
			if tt.wantExit && exitErr.ExitCode() != 2 {
				t.Errorf("exit code = %d, want 2", exitErr.ExitCode())
			}
			if output.String() != tt.want {
				t.Errorf("output = %q, want %q", output.String(), tt.want)
			}
		})
	}
}
