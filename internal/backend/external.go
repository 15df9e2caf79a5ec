package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"fontsieve/internal/faults"
	"fontsieve/internal/fileutil"
	"fontsieve/internal/logging"
	"fontsieve/internal/unirange"
)

// externalFlavorFlag is passed to the subsetting tool on every call. The
// requested flavor only selects the output file extension.
const externalFlavorFlag = "--flavor=woff2"

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// commandExecutor executes commands using os/exec and folds stderr into the
// returned error.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := lastLines(stderr.String(), 5); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

// External subsets fonts by invoking a subsetting executable per file.
type External struct {
	binary  string
	exec    Executor
	timeout time.Duration
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// ExternalOption configures an External backend.
type ExternalOption func(*External)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) ExternalOption {
	return func(b *External) {
		if exec != nil {
			b.exec = exec
		}
	}
}

// WithTimeout bounds each invocation. Zero disables the bound.
func WithTimeout(timeout time.Duration) ExternalOption {
	return func(b *External) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// WithRetries re-runs a failed invocation up to retries times, doubling the
// backoff after each attempt.
func WithRetries(retries int, backoff time.Duration) ExternalOption {
	return func(b *External) {
		if retries > 0 {
			b.retries = retries
		}
		if backoff > 0 {
			b.backoff = backoff
		}
	}
}

// WithExternalLogger attaches a logger.
func WithExternalLogger(logger *slog.Logger) ExternalOption {
	return func(b *External) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewExternal constructs the subprocess backend.
func NewExternal(binary string, opts ...ExternalOption) (*External, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "external", "new", "subsetting binary required", nil)
	}
	b := &External{
		binary:  binary,
		exec:    commandExecutor{},
		backoff: 500 * time.Millisecond,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "external")
	return b, nil
}

// Kind implements Backend.
func (b *External) Kind() Kind { return KindExternal }

// Binary returns the executable the backend invokes.
func (b *External) Binary() string { return b.binary }

// Args returns the command line for one request.
func (b *External) Args(req Request) []string {
	return []string{
		req.Input.Path,
		"--unicodes=" + strings.Join(req.Tokens, ","),
		"--output-file=" + OutputPath(req.OutputDir, req.Input.Name, req.Flavor.Extension()),
		externalFlavorFlag,
	}
}

// Apply implements Backend. Any failure of the tool is fatal for the batch.
func (b *External) Apply(ctx context.Context, req Request) Result {
	started := time.Now()
	res := Result{Input: req.Input, Backend: KindExternal}

	if err := ctx.Err(); err != nil {
		return cancelled(res, err, started)
	}
	if _, err := unirange.Parse(req.Tokens); err != nil {
		return fatal(res, err, started)
	}

	args := b.Args(req)
	outPath := OutputPath(req.OutputDir, req.Input.Name, req.Flavor.Extension())
	backoff := b.backoff

	var err error
	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1
		err = b.runOnce(ctx, args)
		if err == nil {
			break
		}
		if attempt >= b.retries || ctx.Err() != nil {
			break
		}
		b.logger.Warn("subsetting tool failed; retrying",
			logging.Font(req.Input.Path),
			logging.Int("attempt", res.Attempts),
			logging.Duration("backoff", backoff),
			logging.Error(err),
		)
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, faults.ErrTimeout) {
			return cancelled(res, ctx.Err(), started)
		}
		return fatal(res, err, started)
	}

	res.Outcome = OutcomeWritten
	res.OutputPath = outPath
	res.Bytes = fileutil.FileSize(outPath)
	res.Duration = time.Since(started)
	return res
}

func (b *External) runOnce(ctx context.Context, args []string) error {
	runCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	err := b.exec.Run(runCtx, b.binary, args)
	if err == nil {
		return nil
	}
	if b.timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return faults.Wrap(faults.ErrTimeout, "external", b.binary, fmt.Sprintf("no exit after %s", b.timeout), err)
	}
	return faults.Wrap(faults.ErrExternalTool, "external", b.binary, "", err)
}

func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
