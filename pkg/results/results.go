package results

import (
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
)

// Snapshot is a view of one worker's counters over some span of time.
type Snapshot struct {
	Operations int64
	Rows       int64
	EmptyScans int64
	Latency    *hdrhistogram.Histogram
}

// WorkerResult collects per-worker counters and request latencies. Workers
// record on their own instance; the reporter goroutine drains partial
// snapshots, so a mutex guards the histogram.
type WorkerResult struct {
	mu             sync.Mutex
	partial        Snapshot
	total          Snapshot
	measureLatency bool
	minLatency     int64
	maxLatency     int64
}

func NewWorkerResult(timeout time.Duration, measureLatency bool) *WorkerResult {
	r := &WorkerResult{
		measureLatency: measureLatency,
		minLatency:     time.Microsecond.Nanoseconds() * 50,
		maxLatency:     (timeout + timeout*2).Nanoseconds(),
	}
	if measureLatency {
		r.partial.Latency = r.newHistogram()
		r.total.Latency = r.newHistogram()
	}
	return r
}

func (r *WorkerResult) newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(r.minLatency, r.maxLatency, 3)
}

// RecordOp registers one completed operation touching the given number of
// rows.
func (r *WorkerResult) RecordOp(rows int64, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partial.Operations++
	r.total.Operations++
	r.partial.Rows += rows
	r.total.Rows += rows
	if !r.measureLatency {
		return
	}
	lv := latency.Nanoseconds()
	if lv > r.maxLatency {
		lv = r.maxLatency
	}
	_ = r.partial.Latency.RecordValue(lv)
	_ = r.total.Latency.RecordValue(lv)
}

// RecordEmptyScan registers a sampled key that had no data yet.
func (r *WorkerResult) RecordEmptyScan() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partial.EmptyScans++
	r.total.EmptyScans++
}

// TakePartial returns the counters accumulated since the previous call and
// resets them.
func (r *WorkerResult) TakePartial() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.partial
	r.partial = Snapshot{}
	if r.measureLatency {
		r.partial.Latency = r.newHistogram()
	}
	return s
}

// Total returns the counters accumulated over the whole run.
func (r *WorkerResult) Total() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.total
	if r.measureLatency {
		s.Latency = hdrhistogram.Import(r.total.Latency.Export())
	}
	return s
}
