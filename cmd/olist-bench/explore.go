package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"olist-benchmark/internal/explorer"
)

func newExploreCmd(root *rootOptions) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Describe the raw Olist CSV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.Explorer.DataPath = dataPath
			}

			sum, err := explorer.New(cfg.Explorer.DataPath, os.Stdout, log.Logger).Run()
			if err != nil {
				return err
			}
			log.Info().Str("dir", cfg.Explorer.DataPath).Stringer("summary", sum).Msg("exploration finished")

			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "",
		"Directory holding the CSV files (default from config: data/raw)")

	return cmd
}
