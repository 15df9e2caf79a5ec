package faults_test

import (
	"errors"
	"strings"
	"testing"

	"fontsieve/internal/faults"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("exit status 2")
	err := faults.Wrap(faults.ErrExternalTool, "external", "run pyftsubset", "Roboto.ttf", cause)

	if !errors.Is(err, faults.ErrExternalTool) {
		t.Fatalf("expected marker to be preserved, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	want := "external tool error: external: run pyftsubset: Roboto.ttf: exit status 2"
	if err.Error() != want {
		t.Fatalf("unexpected message: got %q want %q", err.Error(), want)
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := faults.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, faults.ErrMalformedInput) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "subsetting failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want faults.Class
	}{
		{"nil", nil, faults.ClassRecoverable},
		{"configuration", faults.Wrap(faults.ErrConfiguration, "unirange", "parse", "U+ZZ", nil), faults.ClassFatal},
		{"external", faults.Wrap(faults.ErrExternalTool, "external", "spawn", "", nil), faults.ClassFatal},
		{"output", faults.Wrap(faults.ErrOutput, "inprocess", "write", "", nil), faults.ClassFatal},
		{"timeout", faults.Wrap(faults.ErrTimeout, "external", "wait", "", nil), faults.ClassFatal},
		{"malformed", faults.Wrap(faults.ErrMalformedInput, "inprocess", "parse", "", nil), faults.ClassRecoverable},
		{"declined", faults.Wrap(faults.ErrDeclined, "inprocess", "subset", "", nil), faults.ClassRecoverable},
		{"plain", errors.New("boom"), faults.ClassRecoverable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := faults.Severity(tt.err); got != tt.want {
				t.Fatalf("Severity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReason(t *testing.T) {
	if got := faults.Reason(faults.Wrap(faults.ErrDeclined, "", "", "", nil)); got != "nothing to subset" {
		t.Fatalf("unexpected reason %q", got)
	}
	if got := faults.Reason(nil); got != "" {
		t.Fatalf("expected empty reason for nil, got %q", got)
	}
}
