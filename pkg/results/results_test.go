package results

import (
	"testing"
	"time"
)

func TestWorkerResultCounters(t *testing.T) {
	t.Parallel()

	r := NewWorkerResult(5*time.Second, true)
	r.RecordOp(3, 2*time.Millisecond)
	r.RecordOp(1, 4*time.Millisecond)
	r.RecordEmptyScan()

	partial := r.TakePartial()
	if partial.Operations != 2 {
		t.Errorf("partial operations = %d; want 2", partial.Operations)
	}
	if partial.Rows != 4 {
		t.Errorf("partial rows = %d; want 4", partial.Rows)
	}
	if partial.EmptyScans != 1 {
		t.Errorf("partial empty scans = %d; want 1", partial.EmptyScans)
	}
	if partial.Latency.TotalCount() != 2 {
		t.Errorf("partial latency count = %d; want 2", partial.Latency.TotalCount())
	}

	// TakePartial resets the partial counters but not the totals.
	partial = r.TakePartial()
	if partial.Operations != 0 || partial.Rows != 0 || partial.EmptyScans != 0 {
		t.Errorf("second TakePartial not empty: %+v", partial)
	}

	total := r.Total()
	if total.Operations != 2 || total.Rows != 4 || total.EmptyScans != 1 {
		t.Errorf("total = %+v; want 2 ops, 4 rows, 1 empty scan", total)
	}
	if total.Latency.TotalCount() != 2 {
		t.Errorf("total latency count = %d; want 2", total.Latency.TotalCount())
	}
}

func TestWorkerResultClampsLatency(t *testing.T) {
	t.Parallel()

	r := NewWorkerResult(time.Second, true)
	r.RecordOp(1, time.Minute)

	total := r.Total()
	if total.Latency.TotalCount() != 1 {
		t.Fatalf("latency count = %d; want 1", total.Latency.TotalCount())
	}
	// An outlier above the histogram bound is clamped, not dropped.
	if total.Latency.Max() >= time.Minute.Nanoseconds() {
		t.Errorf("latency %d was not clamped to the histogram upper bound", total.Latency.Max())
	}
}

func TestWorkerResultWithoutLatency(t *testing.T) {
	t.Parallel()

	r := NewWorkerResult(time.Second, false)
	r.RecordOp(1, time.Millisecond)
	if s := r.TakePartial(); s.Latency != nil {
		t.Error("latency histogram allocated with measurement disabled")
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   time.Duration
		want time.Duration
	}{
		{123456789 * time.Nanosecond, 123 * time.Millisecond},
		{1234567 * time.Nanosecond, 1200 * time.Microsecond},
		{1234 * time.Nanosecond, 1 * time.Microsecond},
		{12 * time.Nanosecond, 12 * time.Nanosecond},
		{1250 * time.Millisecond, 1300 * time.Millisecond},
	}

	for _, tc := range testCases {
		if got := Round(tc.in); got != tc.want {
			t.Errorf("Round(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}
