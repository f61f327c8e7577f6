package database

import (
	"fmt"
	"time"
)

// TrialResult is the outcome of one query execution by one worker.
type TrialResult struct {
	WorkerID   int     `json:"worker_id"`
	QueryName  string  `json:"query"`
	Iteration  int     `json:"iteration"`
	DurationMs float64 `json:"duration_ms"`
	RowCount   int     `json:"rows"`
	Success    bool    `json:"success"`
}

type ErrorKind string

const (
	// ConnectionError ends the worker that hit it; other workers go on.
	ConnectionError ErrorKind = "connection"
	// QueryError fails a single trial only.
	QueryError ErrorKind = "query"
)

type ErrorRecord struct {
	WorkerID  int       `json:"worker_id"`
	QueryName string    `json:"query,omitempty"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"error"`
}

func (e ErrorRecord) String() string {
	if e.Kind == ConnectionError {
		return fmt.Sprintf("worker %d: connection error: %s", e.WorkerID, e.Message)
	}
	return fmt.Sprintf("worker %d [%s]: %s", e.WorkerID, e.QueryName, e.Message)
}

type LatencyBucket struct {
	FromMs float64 `json:"from_ms"`
	ToMs   float64 `json:"to_ms"`
	Count  int64   `json:"count"`
}

// AggregateReport summarises one (query, thread count) run. Latencies are
// in milliseconds and cover successful trials only.
type AggregateReport struct {
	RunID        string          `json:"run_id"`
	ThreadCount  int             `json:"threads"`
	QueryName    string          `json:"query"`
	TotalTime    time.Duration   `json:"total_time_ns"`
	SuccessCount int             `json:"successful"`
	FailureCount int             `json:"failed"`
	QPS          float64         `json:"qps"`
	MeanMs       float64         `json:"avg_ms"`
	MedianMs     float64         `json:"median_ms"`
	MinMs        float64         `json:"min_ms"`
	MaxMs        float64         `json:"max_ms"`
	StdDevMs     float64         `json:"stdev_ms"`
	P95Ms        float64         `json:"p95_ms"`
	P99Ms        float64         `json:"p99_ms"`
	Distribution []LatencyBucket `json:"distribution,omitempty"`
}

// HasStdDev reports whether StdDevMs is meaningful; a sample deviation
// needs at least two values.
func (r *AggregateReport) HasStdDev() bool {
	return r.SuccessCount > 1
}
