package runner

import (
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/montanaflynn/stats"

	"olist-benchmark/internal/database"
)

// One hour in microseconds; slower queries are clamped into the top bucket.
const maxRecordableMicros = 3_600_000_000

// Aggregate derives the report for a finished run from its successful
// trials. It returns nil when there are none.
func Aggregate(run *TestRun) *database.AggregateReport {
	var durations stats.Float64Data
	for _, r := range run.Results {
		if r.Success {
			durations = append(durations, r.DurationMs)
		}
	}
	if len(durations) == 0 {
		return nil
	}

	rep := &database.AggregateReport{
		RunID:        run.ID.String(),
		ThreadCount:  run.ThreadCount,
		QueryName:    run.QueryName,
		TotalTime:    run.WallTime,
		SuccessCount: len(durations),
		FailureCount: len(run.Results) - len(durations),
	}
	if secs := run.WallTime.Seconds(); secs > 0 {
		rep.QPS = float64(rep.SuccessCount) / secs
	}

	// The stats helpers only fail on empty input, which is ruled out above.
	rep.MeanMs, _ = stats.Mean(durations)
	rep.MedianMs, _ = stats.Median(durations)
	rep.MinMs, _ = stats.Min(durations)
	rep.MaxMs, _ = stats.Max(durations)
	if len(durations) > 1 {
		rep.StdDevMs, _ = stats.StandardDeviationSample(durations)
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)
	rep.P95Ms = nearestRank(sorted, 0.95)
	rep.P99Ms = nearestRank(sorted, 0.99)

	rep.Distribution = distribution(sorted)

	return rep
}

// nearestRank returns sorted[floor(len*p)] with no interpolation. It is a
// coarse estimator for small samples and is kept as-is so numbers stay
// comparable with earlier result sets.
func nearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func distribution(durations []float64) []database.LatencyBucket {
	h := hdrhistogram.New(1, maxRecordableMicros, 3)
	for _, ms := range durations {
		us := int64(ms * 1000)
		if us < 1 {
			us = 1
		}
		if us > maxRecordableMicros {
			us = maxRecordableMicros
		}
		h.RecordValue(us)
	}

	var buckets []database.LatencyBucket
	for _, bar := range h.Distribution() {
		if bar.Count == 0 {
			continue
		}
		buckets = append(buckets, database.LatencyBucket{
			FromMs: float64(bar.From) / 1000,
			ToMs:   float64(bar.To) / 1000,
			Count:  bar.Count,
		})
	}
	return buckets
}
