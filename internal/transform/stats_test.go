package transform

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLLMStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLLMStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewLLMStats(10 * time.Millisecond)
	stats.Record(100)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected a single 200ms sample, got %+v", snap)
	}
}

func TestLLMStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(-10)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestInstrumentCountsOutcomes(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	replies := []struct {
		out string
		err error
	}{
		{"ok", nil},
		{"", nil},
		{"", errors.New("boom")},
		{"", &RetryableError{StatusCode: 503}},
	}
	i := 0
	inner := Func(func(ctx context.Context, sys, user string, opts Options) (string, error) {
		r := replies[i]
		i++
		return r.out, r.err
	})
	tr := Instrument(inner, stats)

	for range replies {
		_, _ = tr.Transform(context.Background(), "sys", "user", DefaultOptions())
	}

	snap := stats.Snapshot()
	if snap.Calls != 4 || snap.Empty != 1 || snap.Errors != 2 {
		t.Fatalf("expected calls=4 empty=1 errors=2, got %+v", snap)
	}
	if snap.Count != 4 {
		t.Fatalf("expected 4 latency samples, got %d", snap.Count)
	}
}

func TestInstrumentReportsEmptyAsError(t *testing.T) {
	tr := Instrument(Func(func(context.Context, string, string, Options) (string, error) {
		return "", nil
	}), NewLLMStats(time.Hour))

	_, err := tr.Transform(context.Background(), "", "x", DefaultOptions())
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
