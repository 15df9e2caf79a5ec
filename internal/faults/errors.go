package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrMalformedInput = errors.New("malformed input")
	ErrDeclined       = errors.New("subsetting declined")
	ErrExternalTool   = errors.New("external tool error")
	ErrOutput         = errors.New("output error")
	ErrTimeout        = errors.New("timeout")
)

// Class groups errors by how a batch run must react to them.
type Class int

const (
	// ClassRecoverable errors are local to one file; the batch continues.
	ClassRecoverable Class = iota
	// ClassFatal errors abort the whole run.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	default:
		return "recoverable"
	}
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrMalformedInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Severity maps an error to the batch reaction it requires. Configuration,
// external tool, output and timeout failures point at the environment or at
// global settings and cannot be fixed by moving on to the next file.
func Severity(err error) Class {
	switch {
	case err == nil:
		return ClassRecoverable
	case errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrExternalTool),
		errors.Is(err, ErrOutput),
		errors.Is(err, ErrTimeout):
		return ClassFatal
	default:
		return ClassRecoverable
	}
}

// Reason returns a short label for an error, suitable for summaries.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "invalid configuration"
	case errors.Is(err, ErrMalformedInput):
		return "malformed font"
	case errors.Is(err, ErrDeclined):
		return "nothing to subset"
	case errors.Is(err, ErrTimeout):
		return "timed out"
	case errors.Is(err, ErrExternalTool):
		return "external tool failed"
	case errors.Is(err, ErrOutput):
		return "output not writable"
	default:
		return "failed"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "subsetting failure"
	}
	return strings.Join(parts, ": ")
}
