package batch

import "sync/atomic"

// Progress is the state shared by workers: a completion counter and the name
// of the file most recently started. Current is best effort; with several
// workers it names one of the files in flight.
type Progress struct {
	total   int64
	done    atomic.Int64
	current atomic.Pointer[string]
}

// NewProgress returns progress for total units.
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Begin records name as the current item.
func (p *Progress) Begin(name string) {
	p.current.Store(&name)
}

// Advance marks one unit as done and returns the new count.
func (p *Progress) Advance() int64 {
	return p.done.Add(1)
}

// Snapshot is a point-in-time copy of Progress.
type Snapshot struct {
	Total   int64
	Done    int64
	Current string
}

// Percent returns completion in the range 0..100.
func (s Snapshot) Percent() float64 {
	if s.Total <= 0 {
		return 100
	}
	return float64(s.Done) / float64(s.Total) * 100
}

// Snapshot reads the current state.
func (p *Progress) Snapshot() Snapshot {
	snap := Snapshot{Total: p.total, Done: p.done.Load()}
	if cur := p.current.Load(); cur != nil {
		snap.Current = *cur
	}
	return snap
}
