package results

import (
	"fmt"
	"time"

	"github.com/codahale/hdrhistogram"
)

const (
	withLatencyLineFmt    = "%5v %10v %10v %7v %9v %9v %9v %9v %9v\n"
	withoutLatencyLineFmt = "%5v %10v %10v %7v\n"
)

// Reporter periodically merges all workers' partial results and prints one
// aggregate line.
type Reporter struct {
	workers        []*WorkerResult
	interval       time.Duration
	measureLatency bool
	minLatency     int64
	maxLatency     int64
}

func NewReporter(workers []*WorkerResult, interval time.Duration, timeout time.Duration, measureLatency bool) *Reporter {
	return &Reporter{
		workers:        workers,
		interval:       interval,
		measureLatency: measureLatency,
		minLatency:     time.Microsecond.Nanoseconds() * 50,
		maxLatency:     (timeout + timeout*2).Nanoseconds(),
	}
}

func (rep *Reporter) PrintHeader() {
	if rep.measureLatency {
		fmt.Printf(withLatencyLineFmt, "time", "ops/s", "rows/s", "empty", "max", "99th", "95th", "median", "mean")
	} else {
		fmt.Printf(withoutLatencyLineFmt, "time", "ops/s", "rows/s", "empty")
	}
}

// Run prints one report line per interval until the process dies.
func (rep *Reporter) Run() {
	start := time.Now()
	for range time.Tick(rep.interval) {
		rep.printLine(time.Since(start))
	}
}

func (rep *Reporter) printLine(elapsed time.Duration) {
	merged := Snapshot{}
	var latency *hdrhistogram.Histogram
	if rep.measureLatency {
		latency = hdrhistogram.New(rep.minLatency, rep.maxLatency, 3)
	}
	for _, w := range rep.workers {
		s := w.TakePartial()
		merged.Operations += s.Operations
		merged.Rows += s.Rows
		merged.EmptyScans += s.EmptyScans
		if latency != nil && s.Latency != nil {
			latency.Merge(s.Latency)
		}
	}

	seconds := rep.interval.Seconds()
	opsPerSecond := int64(float64(merged.Operations) / seconds)
	rowsPerSecond := int64(float64(merged.Rows) / seconds)

	if latency != nil {
		fmt.Printf(withLatencyLineFmt, Round(elapsed), opsPerSecond, rowsPerSecond,
			merged.EmptyScans,
			Round(time.Duration(latency.Max())),
			Round(time.Duration(latency.ValueAtQuantile(99))),
			Round(time.Duration(latency.ValueAtQuantile(95))),
			Round(time.Duration(latency.ValueAtQuantile(50))),
			Round(time.Duration(latency.Mean())))
	} else {
		fmt.Printf(withoutLatencyLineFmt, Round(elapsed), opsPerSecond, rowsPerSecond,
			merged.EmptyScans)
	}
}

// Round trims durations before printing; time.Duration.String() prints
// with excessive precision (9 digits after the decimal point for durations
// over a second).
func Round(d time.Duration) time.Duration {
	switch {
	case d < time.Microsecond:
		d = d.Round(time.Nanosecond)
	case d < time.Millisecond:
		d = d.Round(time.Microsecond)
	case d < time.Millisecond*10:
		d = d.Round(time.Millisecond / 10)
	case d < time.Second:
		d = d.Round(time.Millisecond)
	default:
		d = d.Round(time.Second / 10)
	}
	return d
}
