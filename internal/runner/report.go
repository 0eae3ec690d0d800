package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type EntityCounts struct {
	Extracted   int `json:"extracted"`
	Undecodable int `json:"undecodable"`
	Cleaned     int `json:"cleaned"`
}

// Report summarises one run. Latencies cover every sink round trip of the
// load stage: each upsert chunk and the time key read-back.
type Report struct {
	RunID          string                   `json:"run_id"`
	Entities       map[string]*EntityCounts `json:"entities"`
	Inserted       map[string]int64         `json:"inserted"`
	FactCandidates int                      `json:"fact_candidates"`
	FactsSkipped   int                      `json:"facts_skipped"`
	Operations     int64                    `json:"operations"`
	P95Latency     time.Duration            `json:"p95_latency"`
	P99Latency     time.Duration            `json:"p99_latency"`
	AverageLatency time.Duration            `json:"average_latency"`
	ExtractTime    time.Duration            `json:"extract_time"`
	LoadTime       time.Duration            `json:"load_time"`
	TotalTime      time.Duration            `json:"total_time"`

	histogram *hdrhistogram.Histogram
}

func newReport(runID string, entities ...string) *Report {
	r := &Report{
		RunID:    runID,
		Entities: make(map[string]*EntityCounts, len(entities)),
		Inserted: make(map[string]int64),
		// Max latency of 10 seconds, significant figures of 3
		histogram: hdrhistogram.New(1, 10000000000, 3),
	}
	for _, e := range entities {
		r.Entities[e] = &EntityCounts{}
	}
	return r
}

func (r *Report) record(latency time.Duration) {
	r.Operations++
	r.histogram.RecordValue(latency.Microseconds())
}

func (r *Report) finish(total time.Duration) {
	r.TotalTime = total
	r.AverageLatency = time.Duration(r.histogram.Mean()) * time.Microsecond
	r.P95Latency = time.Duration(r.histogram.ValueAtQuantile(95)) * time.Microsecond
	r.P99Latency = time.Duration(r.histogram.ValueAtQuantile(99)) * time.Microsecond
}
