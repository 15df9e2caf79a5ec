package logging

// ProgressSampler thins per-file progress events so a large batch logs a
// handful of lines instead of one per file.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler emits whenever completion crosses a multiple of
// bucketSize percent (default 5).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether done of total files deserves a progress line.
// The last file always does.
func (s *ProgressSampler) ShouldLog(done, total int64) bool {
	if s == nil || total <= 0 {
		return true
	}
	if done >= total {
		s.lastBucket = int(100 / s.bucketSize)
		return true
	}
	bucket := int(float64(done) * 100 / float64(total) / s.bucketSize)
	if bucket <= s.lastBucket {
		return false
	}
	s.lastBucket = bucket
	return true
}

// Reset clears the sampler state before a new batch starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
