package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/jsonl"
	"github.com/sells-group/dataset-prep/internal/snapshot"
)

// batchFiles are the conventional inputs tried when no path is given.
var batchFiles = []string{"train.jsonl", "test.jsonl"}

var convertBatch bool

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert line-delimited JSON files to parquet snapshots",
	Long:  "Reads one JSON record per line, skipping malformed lines with a warning, and writes a parquet snapshot whose columns are the union of observed fields. With no input (or --batch), converts the conventional train.jsonl and test.jsonl if present.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail := strings.Join(args, " ")
		if detail == "" {
			detail = "batch"
		}
		return withRun(cmd.Context(), "convert", detail, func() error {
			return runConvert(args, convertBatch)
		})
	},
}

func runConvert(args []string, batch bool) error {
	if batch || len(args) == 0 {
		for _, path := range batchFiles {
			if _, err := os.Stat(path); err != nil {
				zap.L().Info("skipping missing batch file", zap.String("input", path))
				continue
			}
			if err := convertFile(path, ""); err != nil {
				return err
			}
		}
		return nil
	}

	output := ""
	if len(args) == 2 {
		output = args[1]
	}
	return convertFile(args[0], output)
}

// convertFile converts one JSONL file. An empty output path derives the
// snapshot path from the input by swapping the extension.
func convertFile(input, output string) error {
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".parquet"
	}

	records, skipped, err := jsonl.ReadFile(input)
	if err != nil {
		return err
	}
	if skipped > 0 {
		zap.L().Warn("some lines could not be parsed",
			zap.String("input", input),
			zap.Int("skipped", skipped),
		)
	}
	if len(records) == 0 {
		zap.L().Warn("no records parsed, not writing a snapshot", zap.String("input", input))
		return nil
	}

	schema, err := snapshot.Write(output, records)
	if err != nil {
		return eris.Wrapf(err, "convert %s", input)
	}

	summary, err := snapshot.Summarize(input, output, len(records), schema.Names())
	if err != nil {
		return err
	}

	zap.L().Info("conversion complete",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("records", summary.Rows),
		zap.Strings("columns", summary.Columns),
		zap.Float64("input_mb", summary.MegabytesIn()),
		zap.Float64("output_mb", summary.MegabytesOut()),
		zap.Float64("percent_smaller", summary.PercentSmaller()),
	)
	return nil
}

func init() {
	convertCmd.Flags().BoolVar(&convertBatch, "batch", false, "convert the conventional train.jsonl and test.jsonl")
	rootCmd.AddCommand(convertCmd)
}
