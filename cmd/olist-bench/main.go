// Command olist-bench explores the Olist CSV exports, load tests the
// imported PostgreSQL database and renders the tuning study charts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"olist-benchmark/internal/config"
)

const defaultConfigPath = "config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "olist-bench",
		Short: "Olist dataset exploration and PostgreSQL load testing",
		Long: `olist-bench inspects the raw Olist e-commerce CSV files, runs read-query
load tests against the imported database at increasing concurrency, and draws
the charts summarising the tuning study.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(opts.logLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath,
		"Path to the YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "info",
		"Log level: trace, debug, info, warn, error")

	root.AddCommand(
		newExploreCmd(opts),
		newLoadTestCmd(opts),
		newChartsCmd(opts),
	)

	return root
}

func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}

// loadConfig reads the config file. A missing file is only an error when
// --config was given explicitly.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		log.Debug().Str("path", opts.configPath).Msg("no config file, using defaults")
		cfg = config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}

	return nil, fmt.Errorf("load config: %w", err)
}
