package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olist-benchmark/internal/database"
)

func sampleReports() []database.AggregateReport {
	return []database.AggregateReport{
		{QueryName: "catalog_lookup", ThreadCount: 1, QPS: 37.01, MeanMs: 0.75, P95Ms: 1.2, P99Ms: 1.5},
		{QueryName: "customer_orders", ThreadCount: 1, QPS: 103.3, MeanMs: 1.46, P95Ms: 2, P99Ms: 2.5},
		{QueryName: "catalog_lookup", ThreadCount: 5, QPS: 563.05, MeanMs: 0.47, P95Ms: 0.9, P99Ms: 1.1},
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, []string{"catalog_lookup", "customer_orders", "order_analytics"}, sampleReports())
	out := buf.String()

	assert.Contains(t, out, "SUMMARY REPORT")
	assert.Contains(t, out, "\nCATALOG_LOOKUP:\n")
	assert.Contains(t, out, "\nORDER_ANALYTICS:\n")
	assert.Contains(t, out, "Threads    QPS        Avg(ms)    P95(ms)    P99(ms)   \n")
	assert.Contains(t, out, "1          37.01      0.75       1.20       1.50      \n")
	assert.Contains(t, out, "5          563.05     0.47       0.90       1.10      \n")

	// Rows are grouped under their own query.
	catalog := out[strings.Index(out, "CATALOG_LOOKUP"):strings.Index(out, "CUSTOMER_ORDERS")]
	assert.NotContains(t, catalog, "103.30")
	assert.Equal(t, 2, strings.Count(catalog, "\n1 ")+strings.Count(catalog, "\n5 "))
}

func TestWriteRunResult(t *testing.T) {
	rep := &database.AggregateReport{
		TotalTime:    1500 * time.Millisecond,
		SuccessCount: 8,
		FailureCount: 2,
		QPS:          5.33,
		MeanMs:       10,
		MedianMs:     9.5,
		MinMs:        8,
		MaxMs:        14,
		StdDevMs:     1.75,
	}
	errs := []database.ErrorRecord{
		{WorkerID: 0, QueryName: "q", Kind: database.QueryError, Message: "boom 1"},
		{WorkerID: 1, QueryName: "q", Kind: database.QueryError, Message: "boom 2"},
		{WorkerID: 2, QueryName: "q", Kind: database.QueryError, Message: "boom 3"},
		{WorkerID: 3, Kind: database.ConnectionError, Message: "refused"},
	}

	var buf bytes.Buffer
	WriteRunResult(&buf, rep, errs, 10)
	out := buf.String()

	assert.Contains(t, out, "Total time: 1.50 seconds")
	assert.Contains(t, out, "Successful queries: 8/10")
	assert.Contains(t, out, "Failed queries: 2")
	assert.Contains(t, out, "Std Dev: 1.75 ms")
	assert.Contains(t, out, "Errors encountered: 4")
	assert.Contains(t, out, "boom 3")
	assert.NotContains(t, out, "refused")
}

func TestWriteRunResultSingleSample(t *testing.T) {
	var buf bytes.Buffer
	WriteRunResult(&buf, &database.AggregateReport{SuccessCount: 1}, nil, 1)

	assert.Contains(t, buf.String(), "Std Dev: N/A")
	assert.NotContains(t, buf.String(), "Errors encountered")
}

func TestWriteRunResultAllFailed(t *testing.T) {
	errs := []database.ErrorRecord{{WorkerID: 4, Kind: database.ConnectionError, Message: "refused"}}

	var buf bytes.Buffer
	WriteRunResult(&buf, nil, errs, 0)

	assert.Contains(t, buf.String(), "All queries failed!")
	assert.Contains(t, buf.String(), "worker 4: connection error: refused")
}

func TestWriteBannerAndFooter(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	WriteBanner(&buf, ts, "ecommerce_olist", 3)
	WriteFooter(&buf, ts)

	assert.Contains(t, buf.String(), "Start time: 2024-05-01 12:30:00.000000")
	assert.Contains(t, buf.String(), "Database: ecommerce_olist")
	assert.Contains(t, buf.String(), "Queries to test: 3")
	assert.Contains(t, buf.String(), "Test completed: 2024-05-01 12:30:00.000000")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReports()))

	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 3)
	assert.Equal(t, "catalog_lookup", parsed[0]["query"])
	assert.Equal(t, 37.01, parsed[0]["qps"])
}
