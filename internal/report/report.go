// Package report formats load test progress and results for the console
// and as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"olist-benchmark/internal/database"
)

// TimestampLayout matches how the run start and end times are printed.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// maxListedErrors caps how many error records a run result prints.
const maxListedErrors = 3

var (
	rule     = strings.Repeat("=", 70)
	hashRule = strings.Repeat("#", 70)
)

func WriteBanner(w io.Writer, start time.Time, dbName string, queryCount int) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PostgreSQL Concurrency and Load Testing")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Start time: %s\n", start.Format(TimestampLayout))
	fmt.Fprintf(w, "Database: %s\n", dbName)
	fmt.Fprintf(w, "Queries to test: %d\n", queryCount)
}

func WriteQueryHeader(w io.Writer, query string) {
	fmt.Fprintf(w, "\n\n%s\n# Query: %s\n%s\n", hashRule, query, hashRule)
}

func WriteRunHeader(w io.Writer, query string, threads int) {
	fmt.Fprintf(w, "\n%s\nTesting: %s with %d concurrent threads\n%s\n", rule, query, threads, rule)
}

// WriteRunResult prints one run. A nil rep means every trial failed.
func WriteRunResult(w io.Writer, rep *database.AggregateReport, errs []database.ErrorRecord, trials int) {
	if rep == nil {
		fmt.Fprintln(w, "\nAll queries failed!")
		writeErrors(w, errs)
		return
	}

	fmt.Fprintln(w, "\nResults:")
	fmt.Fprintf(w, "  Total time: %.2f seconds\n", rep.TotalTime.Seconds())
	fmt.Fprintf(w, "  Successful queries: %d/%d\n", rep.SuccessCount, trials)
	fmt.Fprintf(w, "  Failed queries: %d\n", rep.FailureCount)
	fmt.Fprintf(w, "  Queries per second: %.2f\n", rep.QPS)

	fmt.Fprintln(w, "\nQuery Performance:")
	fmt.Fprintf(w, "  Average: %.2f ms\n", rep.MeanMs)
	fmt.Fprintf(w, "  Median: %.2f ms\n", rep.MedianMs)
	fmt.Fprintf(w, "  Min: %.2f ms\n", rep.MinMs)
	fmt.Fprintf(w, "  Max: %.2f ms\n", rep.MaxMs)
	if rep.HasStdDev() {
		fmt.Fprintf(w, "  Std Dev: %.2f ms\n", rep.StdDevMs)
	} else {
		fmt.Fprintln(w, "  Std Dev: N/A")
	}

	writeErrors(w, errs)
}

func writeErrors(w io.Writer, errs []database.ErrorRecord) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "\nErrors encountered: %d\n", len(errs))
	for i, e := range errs {
		if i == maxListedErrors {
			break
		}
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

// WriteSummary prints one table per query, in the order given, listing the
// reports that belong to it.
func WriteSummary(w io.Writer, queries []string, reports []database.AggregateReport) {
	fmt.Fprintf(w, "\n\n%s\nSUMMARY REPORT\n%s\n", rule, rule)

	for _, q := range queries {
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(q))
		fmt.Fprintf(w, "%-10s %-10s %-10s %-10s %-10s\n", "Threads", "QPS", "Avg(ms)", "P95(ms)", "P99(ms)")
		fmt.Fprintln(w, strings.Repeat("-", 50))

		for _, r := range reports {
			if r.QueryName != q {
				continue
			}
			fmt.Fprintf(w, "%-10d %-10.2f %-10.2f %-10.2f %-10.2f\n",
				r.ThreadCount, r.QPS, r.MeanMs, r.P95Ms, r.P99Ms)
		}
	}
}

func WriteFooter(w io.Writer, end time.Time) {
	fmt.Fprintf(w, "\n\nTest completed: %s\n", end.Format(TimestampLayout))
	fmt.Fprintln(w, rule)
}

// WriteJSON writes reports as indented JSON to w.
func WriteJSON(w io.Writer, reports []database.AggregateReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(reports)
}
