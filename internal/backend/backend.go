package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fontsieve/internal/config"
	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
)

// Kind names a subsetting strategy.
type Kind string

const (
	KindInProcess Kind = config.BackendInProcess
	KindExternal  Kind = config.BackendExternal
)

// ParseKind validates a backend name.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(value))); k {
	case KindInProcess, KindExternal:
		return k, nil
	case "":
		return KindInProcess, nil
	default:
		return "", faults.Wrap(faults.ErrConfiguration, "backend", "kind", fmt.Sprintf("unsupported backend %q", value), nil)
	}
}

// Flavor is an output container format.
type Flavor string

const (
	FlavorWOFF  Flavor = config.FlavorWOFF
	FlavorWOFF2 Flavor = config.FlavorWOFF2
)

// ParseFlavor validates a flavor name. An empty value selects woff2.
func ParseFlavor(value string) (Flavor, error) {
	switch f := Flavor(strings.ToLower(strings.TrimSpace(value))); f {
	case FlavorWOFF, FlavorWOFF2:
		return f, nil
	case "":
		return FlavorWOFF2, nil
	default:
		return "", faults.Wrap(faults.ErrConfiguration, "backend", "flavor", fmt.Sprintf("unsupported flavor %q", value), nil)
	}
}

// Extension returns the file extension (without dot) for the flavor.
func (f Flavor) Extension() string {
	if f == "" {
		return string(FlavorWOFF2)
	}
	return string(f)
}

// Outcome tags the result of one subsetting call.
type Outcome int

const (
	// OutcomeWritten means the output artifact exists.
	OutcomeWritten Outcome = iota
	// OutcomeSkipped means the file produced no output; the batch continues.
	OutcomeSkipped
	// OutcomeFatal means the batch must stop.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Request describes one subsetting call.
type Request struct {
	Input     discovery.Input
	OutputDir string
	Tokens    []string
	Flavor    Flavor
}

// Result reports what happened to one input file.
type Result struct {
	Input      discovery.Input
	Backend    Kind
	Outcome    Outcome
	OutputPath string
	Bytes      int64
	InputBytes int64
	Reason     string
	Err        error
	Duration   time.Duration
	Attempts   int
}

// Backend turns one input font into one subsetted output file.
type Backend interface {
	Kind() Kind
	Apply(ctx context.Context, req Request) Result
}

// OutputPath maps an input file name to its artifact location: the basename
// with its last extension replaced by ext, inside outputDir.
func OutputPath(outputDir, inputName, ext string) string {
	base := filepath.Base(inputName)
	if current := filepath.Ext(base); current != "" && current != base {
		base = strings.TrimSuffix(base, current)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext != "" {
		base += "." + ext
	}
	return filepath.Join(outputDir, base)
}

// New builds the backend selected by kind from configuration.
func New(kind Kind, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	switch kind {
	case KindInProcess:
		return NewInProcess(
			WithCompressionQuality(cfg.InProcess.CompressionQuality),
			WithInProcessLogger(logger),
		), nil
	case KindExternal:
		return NewExternal(cfg.ExternalBinary(),
			WithTimeout(time.Duration(cfg.External.TimeoutSeconds)*time.Second),
			WithRetries(cfg.External.Retries, time.Duration(cfg.External.RetryBackoffMS)*time.Millisecond),
			WithExternalLogger(logger),
		)
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "backend", "new", fmt.Sprintf("unsupported backend %q", kind), nil)
	}
}

func cancelled(res Result, err error, started time.Time) Result {
	res.Outcome = OutcomeSkipped
	res.Reason = "cancelled"
	res.Err = err
	res.Duration = time.Since(started)
	return res
}

func skipped(res Result, reason string, err error, started time.Time) Result {
	res.Outcome = OutcomeSkipped
	res.Reason = reason
	res.Err = err
	res.Duration = time.Since(started)
	return res
}

func fatal(res Result, err error, started time.Time) Result {
	res.Outcome = OutcomeFatal
	res.Reason = faults.Reason(err)
	res.Err = err
	res.Duration = time.Since(started)
	return res
}
