package runner

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"olist-benchmark/internal/database"
	"olist-benchmark/internal/report"
)

// TestDriver runs every query at every concurrency level once, in order,
// pausing between combinations, and prints a summary at the end.
type TestDriver struct {
	Generator    *Generator
	DatabaseName string
	Queries      []string
	ThreadCounts []int
	Iterations   int
	SettleDelay  time.Duration
	Out          io.Writer
	Logger       zerolog.Logger

	sleep func(ctx context.Context, d time.Duration)
	now   func() time.Time
}

// Run never fails: a combination that cannot run is logged and skipped, and
// failed trials only show up in the printed results.
func (d *TestDriver) Run(ctx context.Context) []database.AggregateReport {
	now := d.now
	if now == nil {
		now = time.Now
	}

	report.WriteBanner(d.Out, now(), d.DatabaseName, len(d.Queries))

	var reports []database.AggregateReport
	for _, q := range d.Queries {
		report.WriteQueryHeader(d.Out, q)

		for _, threads := range d.ThreadCounts {
			report.WriteRunHeader(d.Out, q, threads)

			run, rep, err := d.Generator.RunConcurrencyTest(ctx, threads, q, d.Iterations)
			if err != nil {
				d.Logger.Error().Err(err).Str("query", q).Int("threads", threads).Msg("skipping run")
			} else {
				report.WriteRunResult(d.Out, rep, run.Errors, len(run.Results))
				if rep != nil {
					reports = append(reports, *rep)
				}
			}

			d.settle(ctx)
		}
	}

	report.WriteSummary(d.Out, d.Queries, reports)
	report.WriteFooter(d.Out, now())

	return reports
}

func (d *TestDriver) settle(ctx context.Context) {
	if d.SettleDelay <= 0 {
		return
	}
	if d.sleep != nil {
		d.sleep(ctx, d.SettleDelay)
		return
	}

	t := time.NewTimer(d.SettleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
