package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/internal/mirror"
	"github.com/sells-group/dataset-prep/internal/normalize"
	"github.com/sells-group/dataset-prep/internal/snapshot"
	"github.com/sells-group/dataset-prep/pkg/hub"
)

var (
	preprocessSource    string
	preprocessLocalDir  string
	preprocessMirrorDir string
	preprocessRecipe    string
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Normalize a hub dataset into the training prompt schema",
	Long:  "Fetches every split of the source dataset, maps each record into the fixed prompt/ability/reward/extra-info schema, and writes one parquet snapshot per split. A validation split doubles as test when the source has no test split. The output directory can be mirrored to FTP bulk storage.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRun(cmd.Context(), "preprocess", preprocessSource, func() error {
			client := hub.NewClient(
				hub.WithBaseURL(cfg.Hub.BaseURL),
				hub.WithToken(cfg.Hub.Token),
				hub.WithRateLimit(cfg.Hub.RPS),
			)

			var m *mirror.Client
			if preprocessMirrorDir != "" {
				m = mirror.New(mirror.Options{Timeout: time.Duration(cfg.Mirror.TimeoutSecs) * time.Second})
			}

			return runPreprocess(cmd.Context(), client, m, preprocessOptions{
				Source:     preprocessSource,
				LocalDir:   preprocessLocalDir,
				MirrorDir:  preprocessMirrorDir,
				RecipePath: preprocessRecipe,
			})
		})
	},
}

type preprocessOptions struct {
	Source     string
	LocalDir   string
	MirrorDir  string
	RecipePath string
}

func runPreprocess(ctx context.Context, client hub.Client, m *mirror.Client, opts preprocessOptions) error {
	recipe := normalize.DefaultRecipe(opts.Source)
	if opts.RecipePath != "" {
		loaded, err := normalize.LoadRecipe(opts.RecipePath, recipe)
		if err != nil {
			return err
		}
		recipe = loaded
	}
	normalizer, err := normalize.New(recipe)
	if err != nil {
		return err
	}

	ds, err := client.Load(ctx, opts.Source)
	if err != nil {
		return err
	}
	zap.L().Info("loaded source dataset",
		zap.String("source", opts.Source),
		zap.Strings("splits", ds.Names()),
	)

	if err := os.MkdirAll(opts.LocalDir, 0o755); err != nil {
		return eris.Wrapf(err, "create output dir %s", opts.LocalDir)
	}

	for _, split := range ds.Names() {
		records, _ := ds.Split(split)
		if len(records) == 0 {
			zap.L().Warn("split is empty, not writing a snapshot",
				zap.String("source", opts.Source),
				zap.String("split", split),
			)
			continue
		}

		mapped, err := normalizer.ApplyAll(records, split)
		if err != nil {
			return err
		}

		outPath := filepath.Join(opts.LocalDir, split+".parquet")
		if _, err := snapshot.Write(outPath, mapped); err != nil {
			return err
		}
		zap.L().Info("wrote split snapshot",
			zap.String("split", split),
			zap.String("path", outPath),
			zap.Int("records", len(mapped)),
		)
	}

	// Downstream convention expects a test split; a validation-only
	// source gets its validation snapshot duplicated as test.
	if ds.Has(dataset.SplitValidation) && !ds.Has(dataset.SplitTest) {
		src := filepath.Join(opts.LocalDir, dataset.SplitValidation+".parquet")
		dst := filepath.Join(opts.LocalDir, dataset.SplitTest+".parquet")
		if _, err := os.Stat(src); err == nil {
			if err := copyFile(src, dst); err != nil {
				return err
			}
			zap.L().Info("duplicated validation snapshot as test",
				zap.String("src", src),
				zap.String("dst", dst),
			)
		}
	}

	if opts.MirrorDir != "" {
		if err := m.EnsureDir(ctx, opts.MirrorDir); err != nil {
			return err
		}
		if err := m.CopyDir(ctx, opts.LocalDir, opts.MirrorDir); err != nil {
			return err
		}
		zap.L().Info("mirrored output directory", zap.String("dest", opts.MirrorDir))
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return eris.Wrapf(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return eris.Wrapf(err, "copy %s to %s", src, dst)
	}
	return eris.Wrapf(out.Close(), "close %s", dst)
}

func init() {
	preprocessCmd.Flags().StringVar(&preprocessSource, "source", "", "hub dataset id to preprocess (required)")
	preprocessCmd.Flags().StringVar(&preprocessLocalDir, "local-dir", "data", "directory for the per-split parquet snapshots")
	preprocessCmd.Flags().StringVar(&preprocessMirrorDir, "mirror-dir", "", "optional ftp:// destination to mirror the output directory to")
	preprocessCmd.Flags().StringVar(&preprocessRecipe, "recipe", "", "optional YAML recipe overriding normalization defaults")
	_ = preprocessCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(preprocessCmd)
}
