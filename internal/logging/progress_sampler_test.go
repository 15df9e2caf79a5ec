package logging

import "testing"

func TestNewProgressSamplerDefaultsBucket(t *testing.T) {
	for _, size := range []float64{0, -3} {
		if s := NewProgressSampler(size); s.bucketSize != 5 {
			t.Fatalf("NewProgressSampler(%v).bucketSize = %v, want 5", size, s.bucketSize)
		}
	}
	if s := NewProgressSampler(25); s.bucketSize != 25 {
		t.Fatalf("custom bucket size not kept: %v", s.bucketSize)
	}
}

func TestProgressSamplerEmitsOncePerBucket(t *testing.T) {
	s := NewProgressSampler(25)
	var emitted []int64
	for done := int64(1); done <= 20; done++ {
		if s.ShouldLog(done, 20) {
			emitted = append(emitted, done)
		}
	}
	want := []int64{1, 5, 10, 15, 20}
	if len(emitted) != len(want) {
		t.Fatalf("emitted %v, want %v", emitted, want)
	}
	for i := range want {
		if emitted[i] != want[i] {
			t.Fatalf("emitted %v, want %v", emitted, want)
		}
	}
}

func TestProgressSamplerAlwaysLogsCompletion(t *testing.T) {
	s := NewProgressSampler(50)
	if !s.ShouldLog(1, 3) {
		t.Fatal("first file should log")
	}
	if s.ShouldLog(1, 3) {
		t.Fatal("repeated count should not log")
	}
	if !s.ShouldLog(3, 3) {
		t.Fatal("completion should log")
	}
	if !s.ShouldLog(3, 3) {
		t.Fatal("completion should log every time it is reported")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(5, 10)
	if s.ShouldLog(5, 10) {
		t.Fatal("same bucket should not log twice")
	}
	s.Reset()
	if !s.ShouldLog(5, 10) {
		t.Fatal("reset sampler should log again")
	}
}

func TestProgressSamplerNilAndUnknownTotal(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(1, 10) {
		t.Fatal("nil sampler should always log")
	}
	s.Reset()
	if !NewProgressSampler(5).ShouldLog(3, 0) {
		t.Fatal("unknown total should always log")
	}
}
