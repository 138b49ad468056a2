package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dataset-prep",
	Short: "Dataset preparation pipelines for training runs",
	Long:  "Converts line-delimited JSON to parquet snapshots, normalizes hub datasets into the prompt/reward training schema, and splits/publishes datasets back to the hub.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
