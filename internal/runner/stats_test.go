package runner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olist-benchmark/internal/database"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestNearestRank(t *testing.T) {
	tests := []struct {
		name    string
		sorted  []float64
		wantP95 float64
		wantP99 float64
	}{
		{"single sample", []float64{7.5}, 7.5, 7.5},
		{"two samples", []float64{1, 2}, 2, 2},
		{"five samples", seq(5), 5, 5},
		{"twenty samples", seq(20), 20, 20},
		{"fifty samples", seq(50), 48, 50},
		{"hundred samples", seq(100), 96, 100},
		{"two hundred samples", seq(200), 191, 199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantP95, nearestRank(tt.sorted, 0.95))
			assert.Equal(t, tt.wantP99, nearestRank(tt.sorted, 0.99))
		})
	}
}

func trial(ms float64, ok bool) database.TrialResult {
	if !ok {
		return database.TrialResult{}
	}
	return database.TrialResult{DurationMs: ms, Success: true}
}

func TestAggregate(t *testing.T) {
	run := &TestRun{
		ID:          uuid.New(),
		QueryName:   "catalog_lookup",
		ThreadCount: 2,
		WallTime:    2 * time.Second,
		Results: []database.TrialResult{
			trial(4, true),
			trial(0, false),
			trial(2, true),
			trial(8, true),
			trial(6, true),
		},
	}

	rep := Aggregate(run)
	require.NotNil(t, rep)

	assert.Equal(t, run.ID.String(), rep.RunID)
	assert.Equal(t, 4, rep.SuccessCount)
	assert.Equal(t, 1, rep.FailureCount)
	assert.InDelta(t, 2.0, rep.QPS, 1e-9)
	assert.InDelta(t, 5.0, rep.MeanMs, 1e-9)
	assert.InDelta(t, 5.0, rep.MedianMs, 1e-9)
	assert.Equal(t, 2.0, rep.MinMs)
	assert.Equal(t, 8.0, rep.MaxMs)
	// Sample deviation of {2,4,6,8}.
	assert.InDelta(t, 2.5819888974716, rep.StdDevMs, 1e-9)
	assert.True(t, rep.HasStdDev())
	assert.Equal(t, 8.0, rep.P95Ms)
	assert.Equal(t, 8.0, rep.P99Ms)

	var counted int64
	for _, b := range rep.Distribution {
		counted += b.Count
		assert.LessOrEqual(t, b.FromMs, b.ToMs)
	}
	assert.Equal(t, int64(4), counted)
}

func TestAggregateSingleSample(t *testing.T) {
	rep := Aggregate(&TestRun{
		WallTime: time.Second,
		Results:  []database.TrialResult{trial(3, true), trial(0, false)},
	})
	require.NotNil(t, rep)

	assert.Equal(t, 3.0, rep.P95Ms)
	assert.Equal(t, 3.0, rep.P99Ms)
	assert.False(t, rep.HasStdDev())
	assert.Zero(t, rep.StdDevMs)
}

func TestAggregateNoSuccess(t *testing.T) {
	assert.Nil(t, Aggregate(&TestRun{Results: []database.TrialResult{trial(0, false)}}))
	assert.Nil(t, Aggregate(&TestRun{}))
}

func TestAggregateZeroWallTime(t *testing.T) {
	rep := Aggregate(&TestRun{Results: []database.TrialResult{trial(1, true)}})
	require.NotNil(t, rep)
	assert.Zero(t, rep.QPS)
}
