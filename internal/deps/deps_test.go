package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeScript(t, t.TempDir(), "present", "exit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("unexpected status for present binary: %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with a detail: %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
}

func TestInspectReadsVersion(t *testing.T) {
	dir := t.TempDir()
	tool := writeScript(t, dir, "subsetter", "echo\necho \"fonttools 4.55.0\"\necho extra\n")
	status := Inspect(context.Background(), Requirement{Name: "Subsetter", Command: tool, VersionArgs: []string{"--version"}})
	if !status.Available || status.Version != "fonttools 4.55.0" {
		t.Fatalf("unexpected status: %#v", status)
	}

	broken := writeScript(t, dir, "broken", "exit 3\n")
	status = Inspect(context.Background(), Requirement{Name: "Broken", Command: broken, VersionArgs: []string{"--version"}})
	if !status.Available || status.Version != "" {
		t.Fatalf("failed version check should keep the tool available without a version: %#v", status)
	}
}

func TestInspectUnconfigured(t *testing.T) {
	status := Inspect(context.Background(), Requirement{Name: "Subsetter", Command: "  "})
	if status.Available || status.Detail != "command not configured" {
		t.Fatalf("unexpected status: %#v", status)
	}
}
