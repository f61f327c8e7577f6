package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"olist-benchmark/internal/config"
	"olist-benchmark/internal/database"
	"olist-benchmark/internal/metrics"
	"olist-benchmark/internal/report"
	"olist-benchmark/internal/runner"
	"olist-benchmark/internal/workloads/olist"
)

type loadTestOptions struct {
	driver      string
	threads     []int
	iterations  int
	settleDelay time.Duration
	queries     []string
	metricsAddr string
	jsonPath    string
}

func newLoadTestCmd(root *rootOptions) *cobra.Command {
	opts := &loadTestOptions{}

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Run the concurrency load test against the database",
		Long: `Run every catalog query at each thread count. Each worker opens its own
connection and executes the query a fixed number of times; results are
summarised per run and in a final table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			applyLoadTestFlags(cmd, opts, cfg)

			return runLoadTest(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.driver, "driver", "",
		"Database driver: postgres, mysql or mongo (default from config)")
	flags.IntSliceVar(&opts.threads, "threads", nil,
		"Concurrency levels to test (e.g. 1,5,10,20,50)")
	flags.IntVar(&opts.iterations, "iterations", 0,
		"Query executions per worker")
	flags.DurationVar(&opts.settleDelay, "settle-delay", 0,
		"Pause between runs")
	flags.StringSliceVar(&opts.queries, "queries", nil,
		fmt.Sprintf("Queries to run (default: %v)", olist.Names()))
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address while the test runs (e.g. :9102)")
	flags.StringVar(&opts.jsonPath, "json", "",
		"Also write all reports as JSON to this file")

	return cmd
}

// applyLoadTestFlags lets explicitly set flags win over the config file.
func applyLoadTestFlags(cmd *cobra.Command, opts *loadTestOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Database.Driver = opts.driver
	}
	if flags.Changed("threads") {
		cfg.LoadTest.ThreadCounts = opts.threads
	}
	if flags.Changed("iterations") {
		cfg.LoadTest.Iterations = opts.iterations
	}
	if flags.Changed("settle-delay") {
		cfg.LoadTest.SettleDelay = opts.settleDelay
	}
	if flags.Changed("queries") {
		cfg.LoadTest.Queries = opts.queries
	}
}

func runLoadTest(ctx context.Context, cfg *config.Config, opts *loadTestOptions) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	driver, err := database.NewDriver(cfg.Database)
	if err != nil {
		return err
	}

	var runOpts []runner.Option
	if opts.metricsAddr != "" {
		collector := metrics.NewCollector()
		runOpts = append(runOpts, runner.WithRecorder(collector))

		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := collector.Serve(metricsCtx, opts.metricsAddr, log.Logger); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	reports := runner.Run(ctx, driver, cfg.LoadTest, cfg.Database.Name, os.Stdout, log.Logger, runOpts...)

	if opts.jsonPath == "" {
		return nil
	}

	f, err := os.Create(opts.jsonPath)
	if err != nil {
		return fmt.Errorf("create json report: %w", err)
	}
	if err := report.WriteJSON(f, reports); err != nil {
		f.Close()
		return fmt.Errorf("write json report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close json report: %w", err)
	}
	log.Info().Str("path", opts.jsonPath).Int("reports", len(reports)).Msg("json report written")

	return nil
}
