package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fontsieve/internal/preflight"
	"fontsieve/internal/testsupport"
)

func TestCheckCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSubsets("latin"))
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "== Preflight ==") || strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected check output: %q", out)
	}
	if !strings.Contains(out, "Input directory:") || !strings.Contains(out, "[OK]") {
		t.Fatalf("expected directory checks: %q", out)
	}
}

func TestCheckCommandReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.InputDir); err != nil {
		t.Fatalf("remove input dir: %v", err)
	}
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	if !strings.Contains(out, "[ERROR]") {
		t.Fatalf("expected an error line: %q", out)
	}
}

func TestCheckCommandWarnsWithoutFailing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSubsets("latin", "klingon"))
	env.cfg.External.Binary = "fontsieve-definitely-missing"
	configPath := writeConfig(t, env.cfg)

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err != nil {
		t.Fatalf("warnings must not fail the check: %v\n%s", err, out)
	}
	for _, want := range []string{
		"[WARN] no font files found",
		"[WARN] binary \"fontsieve-definitely-missing\" not found; --backend external will fail",
		"unknown subsets ignored: klingon",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCheckCommandReportsUnusedSubsetterAsInfo(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries("fontsieve-stub-subsetter"))
	env.cfg.External.Binary = "fontsieve-stub-subsetter"
	testsupport.WriteFont(t, filepath.Join(env.cfg.Paths.InputDir, "Go-Regular.ttf"))
	configPath := writeConfig(t, env.cfg)

	out, _, err := runCLI(t, []string{"check"}, configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "[INFO]") || !strings.Contains(out, "unused by the inprocess backend") {
		t.Fatalf("expected informational subsetter line:\n%s", out)
	}
	if !strings.Contains(out, "[OK] 1 found") {
		t.Fatalf("expected input font count:\n%s", out)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		result preflight.Result
		want   statusKind
	}{
		{preflight.Result{Passed: true}, statusOK},
		{preflight.Result{Passed: true, Warning: true}, statusWarn},
		{preflight.Result{Passed: true, Informational: true}, statusInfo},
		{preflight.Result{Warning: true}, statusError},
	}
	for _, tc := range tests {
		if got := checkStatus(tc.result); got != tc.want {
			t.Fatalf("checkStatus(%+v) = %d, want %d", tc.result, got, tc.want)
		}
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Subsetting tool", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Subsetting tool:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	tests := []struct {
		kind  statusKind
		color string
		label string
	}{
		{statusOK, ansiGreen, "[OK]"},
		{statusWarn, ansiYellow, "[WARN]"},
		{statusError, ansiRed, "[ERROR]"},
		{statusInfo, ansiBlue, "[INFO]"},
	}
	for _, tc := range tests {
		got := renderStatusLine("Input directory", tc.kind, "", true)
		if !strings.HasPrefix(got, tc.color) || !strings.HasSuffix(got, ansiReset) {
			t.Fatalf("kind %d: unexpected color in %q", tc.kind, got)
		}
		if !strings.Contains(got, tc.label) {
			t.Fatalf("kind %d: expected %s in %q", tc.kind, tc.label, got)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
