// Package runner drives concurrent read-query load tests: a Generator fans
// a query out over per-worker connections and aggregates the timings, and a
// TestDriver sweeps the query catalog over a list of concurrency levels.
package runner

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"olist-benchmark/internal/config"
	"olist-benchmark/internal/database"
	"olist-benchmark/internal/workloads/olist"
)

// Run executes the load test described by cfg against db, writing progress
// and the summary table to out.
func Run(ctx context.Context, db database.DatabaseDriver, cfg config.LoadTest, dbName string, out io.Writer, logger zerolog.Logger, opts ...Option) []database.AggregateReport {
	queries := cfg.Queries
	if len(queries) == 0 {
		queries = olist.Names()
	}

	logger.Info().
		Str("driver", db.Name()).
		Strs("queries", queries).
		Ints("thread_counts", cfg.ThreadCounts).
		Int("iterations", cfg.Iterations).
		Dur("settle_delay", cfg.SettleDelay).
		Msg("starting load test")

	driver := &TestDriver{
		Generator:    NewGenerator(db, logger, opts...),
		DatabaseName: dbName,
		Queries:      queries,
		ThreadCounts: cfg.ThreadCounts,
		Iterations:   cfg.Iterations,
		SettleDelay:  cfg.SettleDelay,
		Out:          out,
		Logger:       logger,
	}

	reports := driver.Run(ctx)

	logger.Info().Int("reports", len(reports)).Msg("load test finished")

	return reports
}
