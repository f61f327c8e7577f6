package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olist-benchmark/internal/config"
	"olist-benchmark/internal/workloads/olist"
)

func TestTestDriverRun(t *testing.T) {
	var out bytes.Buffer
	var sleeps []time.Duration

	d := &TestDriver{
		Generator:    newTestGenerator(&mockDriver{rows: 3}),
		DatabaseName: "ecommerce_olist",
		Queries:      []string{olist.CatalogLookup, "no_such_query", olist.OrderAnalytics},
		ThreadCounts: []int{1, 2},
		Iterations:   2,
		SettleDelay:  time.Second,
		Out:          &out,
		Logger:       zerolog.Nop(),
		sleep:        func(_ context.Context, d time.Duration) { sleeps = append(sleeps, d) },
		now:          func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) },
	}

	reports := d.Run(context.Background())

	require.Len(t, reports, 4)
	assert.Equal(t, olist.CatalogLookup, reports[0].QueryName)
	assert.Equal(t, 1, reports[0].ThreadCount)
	assert.Equal(t, 2, reports[1].ThreadCount)
	assert.Equal(t, olist.OrderAnalytics, reports[3].QueryName)

	// One pause per (query, thread count) pair, skipped ones included.
	assert.Len(t, sleeps, 6)
	for _, s := range sleeps {
		assert.Equal(t, time.Second, s)
	}

	text := out.String()
	assert.Contains(t, text, "PostgreSQL Concurrency and Load Testing")
	assert.Contains(t, text, "Start time: 2024-05-01 09:00:00.000000")
	assert.Contains(t, text, "Queries to test: 3")
	assert.Contains(t, text, "Testing: catalog_lookup with 2 concurrent threads")
	assert.Contains(t, text, "Testing: no_such_query with 1 concurrent threads")
	assert.Contains(t, text, "Successful queries: 4/4")
	assert.Contains(t, text, "SUMMARY REPORT")
	assert.Contains(t, text, "\nNO_SUCH_QUERY:\n")
	assert.Contains(t, text, "Test completed: 2024-05-01 09:00:00.000000")
	assert.Equal(t, 3, strings.Count(text, "# Query: "))
}

func TestTestDriverRunAllFailed(t *testing.T) {
	var out bytes.Buffer

	d := &TestDriver{
		Generator:    newTestGenerator(&mockDriver{failConnect: func(int) bool { return true }}),
		Queries:      []string{olist.CustomerOrders},
		ThreadCounts: []int{3},
		Iterations:   5,
		Out:          &out,
		Logger:       zerolog.Nop(),
	}

	reports := d.Run(context.Background())

	assert.Empty(t, reports)
	assert.Contains(t, out.String(), "All queries failed!")
	assert.Contains(t, out.String(), "Errors encountered: 3")
	assert.Contains(t, out.String(), "connection error: connection refused")
}

func TestTestDriverSettleHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &TestDriver{SettleDelay: time.Hour}

	done := make(chan struct{})
	go func() {
		d.settle(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("settle did not return after cancel")
	}
}

func TestRunUsesWholeCatalogByDefault(t *testing.T) {
	var out bytes.Buffer
	cfg := config.LoadTest{ThreadCounts: []int{1}, Iterations: 1}

	reports := Run(context.Background(), &mockDriver{}, cfg, "ecommerce_olist", &out, zerolog.Nop())

	require.Len(t, reports, len(olist.Names()))
	for i, name := range olist.Names() {
		assert.Equal(t, name, reports[i].QueryName)
	}
}

func TestRunWithRecorder(t *testing.T) {
	var out bytes.Buffer
	rec := &countingRecorder{}
	drv := &mockDriver{queryErr: errors.New("boom")}
	cfg := config.LoadTest{ThreadCounts: []int{2}, Iterations: 3, Queries: []string{olist.CatalogLookup}}

	reports := Run(context.Background(), drv, cfg, "db", &out, zerolog.Nop(), WithRecorder(rec))

	assert.Empty(t, reports)
	assert.Equal(t, 6, rec.failed)
	assert.Equal(t, 1, rec.nilRuns)
}
