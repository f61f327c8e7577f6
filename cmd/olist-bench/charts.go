package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"olist-benchmark/internal/charts"
)

func newChartsCmd(root *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render the tuning study charts as PNG files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Charts.OutputDir = outDir
			}

			paths, err := charts.RenderAll(cfg.Charts.OutputDir, log.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Charts saved in: %s\n\nFiles created:\n", cfg.Charts.OutputDir)
			for i, p := range paths {
				fmt.Fprintf(os.Stdout, "  %d. %s\n", i+1, filepath.Base(p))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "",
		"Output directory (default from config: results/charts)")

	return cmd
}
