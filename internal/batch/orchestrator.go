package batch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"fontsieve/internal/backend"
	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
	"fontsieve/internal/logging"
	"fontsieve/internal/unirange"
)

const (
	messageComplete = "Font subsetting complete."
	messageAborted  = "Font subsetting aborted."
)

// Orchestrator runs one backend over a batch of inputs.
type Orchestrator struct {
	backend   backend.Backend
	workers   int
	reporter  Reporter
	logger    *slog.Logger
	outputDir string
	flavor    backend.Flavor
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the number of concurrent backend calls.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOutputDir sets the directory outputs are written to.
func WithOutputDir(dir string) Option {
	return func(o *Orchestrator) {
		o.outputDir = dir
	}
}

// WithFlavor sets the requested output flavor.
func WithFlavor(f backend.Flavor) Option {
	return func(o *Orchestrator) {
		o.flavor = f
	}
}

// New constructs an orchestrator around b.
func New(b backend.Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:  b,
		workers:  runtime.NumCPU(),
		reporter: NopReporter{},
		logger:   logging.NewNop(),
		flavor:   backend.FlavorWOFF2,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "batch")
	return o
}

// Run subsets every input with tokens. Malformed tokens fail before any file
// is touched. A fatal result stops dispatch and is returned as *FatalError
// alongside the partial summary. Cancelling ctx stops dispatch as well and
// returns ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, inputs []discovery.Input, tokens []string) (Summary, error) {
	started := time.Now()
	summary := Summary{Total: len(inputs)}

	if o.backend == nil {
		return summary, faults.Wrap(faults.ErrConfiguration, "batch", "run", "no backend configured", nil)
	}
	sel, err := unirange.Parse(tokens)
	if err != nil {
		return summary, err
	}
	if sel.Empty() {
		return summary, faults.Wrap(faults.ErrConfiguration, "batch", "run", "selection is empty", nil)
	}

	logger := logging.WithContext(ctx, o.logger)
	logger.Info("batch started",
		logging.Int("files", len(inputs)),
		logging.String(logging.FieldBackend, string(o.backend.Kind())),
		logging.Int("codepoints", sel.Len()),
	)

	o.reporter.Start(len(inputs))
	results, attempted := o.dispatch(ctx, logger, inputs, tokens)

	for i, res := range results {
		if !attempted[i] {
			summary.NotStarted++
			continue
		}
		summary.add(res)
	}
	summary.Duration = time.Since(started)

	runErr := ctx.Err()
	if summary.Fatal != nil {
		runErr = &FatalError{Result: *summary.Fatal}
	}
	if runErr != nil {
		o.reporter.Finish(messageAborted)
	} else {
		o.reporter.Finish(messageComplete)
	}

	logger.Info("batch finished",
		logging.Int("written", summary.Written),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("not_started", summary.NotStarted),
		logging.Duration("duration", summary.Duration),
	)
	return summary, runErr
}

func (o *Orchestrator) dispatch(ctx context.Context, logger *slog.Logger, inputs []discovery.Input, tokens []string) ([]backend.Result, []bool) {
	results := make([]backend.Result, len(inputs))
	attempted := make([]bool, len(inputs))
	if len(inputs) == 0 {
		return results, attempted
	}

	// dispatchCtx only gates new work; calls in flight keep ctx so they can
	// finish after another worker reports a fatal outcome.
	dispatchCtx, stop := context.WithCancel(ctx)
	defer stop()

	progress := NewProgress(len(inputs))
	jobs := make(chan int)
	workers := min(o.workers, len(inputs))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if dispatchCtx.Err() != nil {
					continue
				}
				input := inputs[idx]
				progress.Begin(input.Path)
				o.reporter.Begin(progress.Snapshot())

				res := o.backend.Apply(ctx, backend.Request{
					Input:     input,
					OutputDir: o.outputDir,
					Tokens:    tokens,
					Flavor:    o.flavor,
				})
				results[idx] = res
				attempted[idx] = true
				o.logResult(logger, res)
				if res.Outcome == backend.OutcomeFatal {
					stop()
				}

				progress.Advance()
				o.reporter.Advance(progress.Snapshot())
			}
		}()
	}

feed:
	for idx := range inputs {
		select {
		case <-dispatchCtx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()
	return results, attempted
}

func (o *Orchestrator) logResult(logger *slog.Logger, res backend.Result) {
	attrs := []logging.Attr{
		logging.Font(res.Input.Path),
		logging.String(logging.FieldOutcome, res.Outcome.String()),
		logging.Duration("duration", res.Duration),
	}
	switch res.Outcome {
	case backend.OutcomeWritten:
		logger.Debug("font subset", logging.Args(append(attrs,
			logging.String(logging.FieldOutput, res.OutputPath),
			logging.Int64("bytes", res.Bytes),
		)...)...)
	case backend.OutcomeSkipped:
		attrs = append(attrs, logging.String("reason", res.Reason), logging.Error(res.Err))
		switch {
		case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
			logger.Debug("font not subset", logging.Args(attrs...)...)
		case errors.Is(res.Err, faults.ErrMalformedInput):
			logging.WarnWithContext(logger, "font skipped", "font_skipped", append(attrs,
				logging.String(logging.FieldErrorHint, "check that the file is a valid TrueType or OpenType font"),
			)...)
		default:
			logger.Info("font skipped", logging.Args(attrs...)...)
		}
	case backend.OutcomeFatal:
		logging.ErrorWithContext(logger, "font subsetting failed", "font_failed", append(attrs,
			logging.String("reason", res.Reason),
			logging.Error(res.Err),
		)...)
	}
}
