package batch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"fontsieve/internal/logging"
)

// Reporter receives progress events from the orchestrator. Begin and Advance
// are called concurrently from workers.
type Reporter interface {
	Start(total int)
	Begin(snap Snapshot)
	Advance(snap Snapshot)
	Finish(message string)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Start(int)        {}
func (NopReporter) Begin(Snapshot)   {}
func (NopReporter) Advance(Snapshot) {}
func (NopReporter) Finish(string)    {}

// BarReporter renders a terminal progress bar.
type BarReporter struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewBarReporter draws to w.
func NewBarReporter(w io.Writer) *BarReporter {
	if w == nil {
		w = os.Stderr
	}
	return &BarReporter{w: w}
}

func (r *BarReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]=[reset]",
			SaucerHead:    "[cyan]>[reset]",
			SaucerPadding: "[blue]-[reset]",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *BarReporter) Begin(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(fmt.Sprintf("Subsetting '%s'", snap.Current))
	}
}

func (r *BarReporter) Advance(Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *BarReporter) Finish(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	r.bar.Describe(message)
	_ = r.bar.Finish()
	_, _ = fmt.Fprintln(r.w)
	r.bar = nil
}

// LogReporter writes sampled progress lines to a logger, for non-interactive
// runs.
type LogReporter struct {
	logger  *slog.Logger
	mu      sync.Mutex
	sampler *logging.ProgressSampler
}

// NewLogReporter logs progress every 10 percent.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogReporter{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(10),
	}
}

func (r *LogReporter) Start(total int) {
	r.mu.Lock()
	r.sampler.Reset()
	r.mu.Unlock()
	r.logger.Info("subsetting started", logging.Int("files", total))
}

func (r *LogReporter) Begin(snap Snapshot) {
	r.logger.Debug("subsetting file", logging.Font(snap.Current))
}

func (r *LogReporter) Advance(snap Snapshot) {
	r.mu.Lock()
	emit := r.sampler.ShouldLog(snap.Done, snap.Total)
	r.mu.Unlock()
	if !emit {
		return
	}
	r.logger.Info("subsetting progress",
		logging.Int64("done", snap.Done),
		logging.Int64("total", snap.Total),
		logging.Float64("percent", snap.Percent()),
	)
}

func (r *LogReporter) Finish(message string) {
	r.logger.Info(message)
}

// NewReporter picks a progress bar when w is a terminal and log lines
// otherwise.
func NewReporter(w *os.File, logger *slog.Logger) Reporter {
	if w != nil && (isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())) {
		return NewBarReporter(w)
	}
	return NewLogReporter(logger)
}
