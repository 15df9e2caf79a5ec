package history

import (
	"time"

	"fontsieve/internal/backend"
	"fontsieve/internal/batch"
)

// Status is the final state of a run.
type Status string

const (
	StatusCompleted   Status = "completed"
	StatusAborted     Status = "aborted"
	StatusInterrupted Status = "interrupted"
)

// Run is one recorded invocation of the subsetting pipeline.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Backend    string
	Flavor     string
	Subsets    []string
	Codepoints int
	InputDir   string
	OutputDir  string
	Status     Status
	Total      int
	Written    int
	Skipped    int
	Failed     int
	NotStarted int
	BytesIn    int64
	BytesOut   int64
	Error      string
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FileResult is the stored outcome of one input file.
type FileResult struct {
	InputPath   string
	OutputPath  string
	Outcome     string
	Reason      string
	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
	Attempts    int
	Error       string
}

// FromSummary fills the counters, status and per-file rows of run from a
// batch summary. runErr is the error returned by the batch, if any.
func FromSummary(run Run, summary batch.Summary, runErr error) (Run, []FileResult) {
	run.Total = summary.Total
	run.Written = summary.Written
	run.Skipped = summary.Skipped
	run.Failed = summary.Failed
	run.NotStarted = summary.NotStarted
	run.BytesIn = summary.BytesIn
	run.BytesOut = summary.BytesOut
	if run.FinishedAt.IsZero() {
		run.FinishedAt = run.StartedAt.Add(summary.Duration)
	}

	switch {
	case summary.Fatal != nil:
		run.Status = StatusAborted
	case runErr != nil || summary.NotStarted > 0:
		run.Status = StatusInterrupted
	default:
		run.Status = StatusCompleted
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	files := make([]FileResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		files = append(files, fileResult(res))
	}
	return run, files
}

func fileResult(res backend.Result) FileResult {
	fr := FileResult{
		InputPath:   res.Input.Path,
		OutputPath:  res.OutputPath,
		Outcome:     res.Outcome.String(),
		Reason:      res.Reason,
		InputBytes:  res.InputBytes,
		OutputBytes: res.Bytes,
		Duration:    res.Duration,
		Attempts:    res.Attempts,
	}
	if res.Err != nil {
		fr.Error = res.Err.Error()
	}
	return fr
}
