// Package loadtest hammers a running server with a fixed set of requests
// and reports throughput and latency percentiles.
package loadtest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// RequestFunc is one call against the server; a non-nil error counts as a failure
type RequestFunc func(ctx context.Context) error

// Runner cycles through its requests from Concurrency goroutines for Duration
type Runner struct {
	name        string
	concurrency int
	duration    time.Duration
	requests    []RequestFunc

	mu        sync.Mutex
	latencies []time.Duration
	failed    int64
}

func NewRunner(name string, concurrency int, duration time.Duration) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{name: name, concurrency: concurrency, duration: duration}
}

func (r *Runner) AddRequest(fn RequestFunc) {
	r.requests = append(r.requests, fn)
}

func (r *Runner) Run(ctx context.Context) *Result {
	r.latencies = nil
	r.failed = 0
	if len(r.requests) == 0 {
		return r.result(0)
	}

	ctx, cancel := context.WithTimeout(ctx, r.duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < r.concurrency; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; ctx.Err() == nil; i++ {
				r.execute(ctx, r.requests[i%len(r.requests)])
			}
		}(w)
	}
	wg.Wait()

	return r.result(time.Since(start))
}

func (r *Runner) execute(ctx context.Context, fn RequestFunc) {
	start := time.Now()
	err := fn(ctx)
	took := time.Since(start)

	// requests cut short by the deadline are not counted
	if err != nil && ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies = append(r.latencies, took)
	if err != nil {
		r.failed++
	}
}

func (r *Runner) result(elapsed time.Duration) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{
		Name:        r.name,
		Concurrency: r.concurrency,
		Elapsed:     elapsed,
		Total:       int64(len(r.latencies)),
		Failed:      r.failed,
	}
	if res.Total == 0 {
		return res
	}

	sorted := make([]time.Duration, len(r.latencies))
	copy(sorted, r.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	res.Average = sum / time.Duration(len(sorted))
	res.Min = sorted[0]
	res.Max = sorted[len(sorted)-1]
	res.P50 = percentile(sorted, 0.50)
	res.P95 = percentile(sorted, 0.95)
	res.P99 = percentile(sorted, 0.99)
	if elapsed > 0 {
		res.QPS = float64(res.Total) / elapsed.Seconds()
	}
	return res
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

type Result struct {
	Name        string        `json:"name"`
	Concurrency int           `json:"concurrency"`
	Elapsed     time.Duration `json:"elapsed"`
	Total       int64         `json:"total"`
	Failed      int64         `json:"failed"`
	QPS         float64       `json:"qps"`
	Average     time.Duration `json:"average"`
	Min         time.Duration `json:"min"`
	Max         time.Duration `json:"max"`
	P50         time.Duration `json:"p50"`
	P95         time.Duration `json:"p95"`
	P99         time.Duration `json:"p99"`
}

func (r *Result) ErrorRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Failed) / float64(r.Total)
}

func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "== %s ==\n", r.Name)
	fmt.Fprintf(w, "concurrency: %d  elapsed: %v\n", r.Concurrency, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "requests: %d  failed: %d (%.2f%%)  qps: %.2f\n", r.Total, r.Failed, r.ErrorRate()*100, r.QPS)
	fmt.Fprintf(w, "latency avg %v  min %v  max %v\n", r.Average, r.Min, r.Max)
	fmt.Fprintf(w, "p50 %v  p95 %v  p99 %v\n", r.P50, r.P95, r.P99)
}
