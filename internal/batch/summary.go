package batch

import (
	"fmt"
	"time"

	"fontsieve/internal/backend"
)

// Summary collects the results of one batch run in input order. BytesIn and
// BytesOut only count files that produced output, so the two are comparable.
type Summary struct {
	Total      int
	Results    []backend.Result
	Written    int
	Skipped    int
	Failed     int
	NotStarted int
	BytesIn    int64
	BytesOut   int64
	Duration   time.Duration
	Fatal      *backend.Result
}

// Aborted reports whether the run stopped before every file was attempted.
func (s Summary) Aborted() bool {
	return s.Fatal != nil || s.NotStarted > 0
}

func (s *Summary) add(res backend.Result) {
	s.Results = append(s.Results, res)
	switch res.Outcome {
	case backend.OutcomeWritten:
		s.Written++
		s.BytesIn += res.InputBytes
		s.BytesOut += res.Bytes
	case backend.OutcomeSkipped:
		s.Skipped++
	case backend.OutcomeFatal:
		s.Failed++
		if s.Fatal == nil {
			fatal := res
			s.Fatal = &fatal
		}
	}
}

// FatalError is returned by Run when a backend call aborted the batch.
type FatalError struct {
	Result backend.Result
}

func (e *FatalError) Error() string {
	if e.Result.Err == nil {
		return fmt.Sprintf("subsetting %s failed: %s", e.Result.Input.Path, e.Result.Reason)
	}
	return fmt.Sprintf("subsetting %s failed: %v", e.Result.Input.Path, e.Result.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Result.Err
}
