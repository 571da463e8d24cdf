// Package report aggregates measurements into per-operation summaries and
// renders the design comparison document.
package report

import (
	"sort"
	"strings"
	"time"

	"ddbench/application/benchmark"
)

// Summary aggregates all runs of one (design, operation) pair.
type Summary struct {
	Design    string  `json:"design"`
	Operation string  `json:"operation"`
	Runs      int     `json:"runs"`
	Failures  int     `json:"failures"`
	AvgMs     float64 `json:"avgMs"`
	MinMs     float64 `json:"minMs"`
	MaxMs     float64 `json:"maxMs"`
	P50Ms     float64 `json:"p50Ms"`
	P95Ms     float64 `json:"p95Ms"`
	AvgItems  float64 `json:"avgItems"`
	AvgScan   float64 `json:"avgScanned"`
	AvgReqs   float64 `json:"avgRequests"`
	TotalRCU  float64 `json:"totalCapacityUnits"`
	LastError string  `json:"lastError,omitempty"`
}

// Aggregate groups measurements by (design, operation). Failed runs count
// toward Failures and are excluded from the latency statistics; their error
// message is surfaced via LastError.
func Aggregate(measurements []benchmark.Measurement) []Summary {
	type bucket struct {
		durations []time.Duration
		items     int
		scanned   int
		requests  int
		capacity  float64
		failures  int
		runs      int
		lastError string
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, m := range measurements {
		key := m.Design + "|" + m.Operation
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.runs++
		if !m.OK() {
			b.failures++
			b.lastError = m.Error
			continue
		}
		b.durations = append(b.durations, m.Duration)
		b.items += m.Items
		b.scanned += m.Scanned
		b.requests += m.Requests
		b.capacity += m.CapacityUnits
	}

	summaries := make([]Summary, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		parts := strings.SplitN(key, "|", 2)
		s := Summary{
			Design:    parts[0],
			Operation: parts[1],
			Runs:      b.runs,
			Failures:  b.failures,
			TotalRCU:  b.capacity,
			LastError: b.lastError,
		}
		if n := len(b.durations); n > 0 {
			sort.Slice(b.durations, func(i, j int) bool { return b.durations[i] < b.durations[j] })
			var total time.Duration
			for _, d := range b.durations {
				total += d
			}
			s.AvgMs = ms(total) / float64(n)
			s.MinMs = ms(b.durations[0])
			s.MaxMs = ms(b.durations[n-1])
			s.P50Ms = ms(percentile(b.durations, 50))
			s.P95Ms = ms(percentile(b.durations, 95))
			s.AvgItems = float64(b.items) / float64(n)
			s.AvgScan = float64(b.scanned) / float64(n)
			s.AvgReqs = float64(b.requests) / float64(n)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// percentile returns the nearest-rank percentile of sorted durations.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
