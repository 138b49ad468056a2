package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/dataset"
	"github.com/sells-group/dataset-prep/pkg/hub"
)

var (
	splitRepo     string
	splitTestSize float64
	splitSeed     int64
	splitToken    string
	splitPrivate  bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a dataset's train split and publish the result",
	Long:  "Downloads the source dataset, deterministically shuffles its train split with the seed, cuts the test-size fraction as a test split, and publishes the two-split dataset to the hub.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Unset flags fall back to config so file/env defaults apply.
		if !cmd.Flags().Changed("test-size") {
			splitTestSize = cfg.Split.TestSize
		}
		if !cmd.Flags().Changed("seed") {
			splitSeed = cfg.Split.Seed
		}

		token := splitToken
		if token == "" {
			token = cfg.Hub.Token
		}
		if token == "" {
			return eris.New("hub token is required (--token or DATASET_HUB_TOKEN)")
		}

		return withRun(cmd.Context(), "split", splitRepo, func() error {
			client := hub.NewClient(
				hub.WithBaseURL(cfg.Hub.BaseURL),
				hub.WithToken(token),
				hub.WithRateLimit(cfg.Hub.RPS),
			)

			addr, err := runSplit(cmd.Context(), client, splitOptions{
				Repo:     splitRepo,
				TestSize: splitTestSize,
				Seed:     splitSeed,
				Token:    token,
				Private:  splitPrivate,
			})
			if err != nil {
				return err
			}

			zap.L().Info("dataset published",
				zap.String("repo", splitRepo),
				zap.String("address", addr),
			)
			return nil
		})
	},
}

type splitOptions struct {
	Repo     string
	TestSize float64
	Seed     int64
	Token    string
	Private  bool
}

func runSplit(ctx context.Context, client hub.Client, opts splitOptions) (string, error) {
	ds, err := client.Load(ctx, opts.Repo)
	if err != nil {
		return "", err
	}

	records, ok := ds.Split(dataset.SplitTrain)
	if !ok {
		return "", eris.Errorf("dataset %s has no train split (found: %v)", opts.Repo, ds.Names())
	}

	train, test, err := dataset.TrainTestSplit(records, opts.TestSize, opts.Seed)
	if err != nil {
		return "", err
	}
	zap.L().Info("partitioned train split",
		zap.String("repo", opts.Repo),
		zap.Int("train", len(train)),
		zap.Int("test", len(test)),
		zap.Int64("seed", opts.Seed),
	)

	out := dataset.New()
	out.SetSplit(dataset.SplitTrain, train)
	out.SetSplit(dataset.SplitTest, test)

	return client.Publish(ctx, opts.Repo, out, hub.PublishOptions{
		Private: opts.Private,
		Token:   opts.Token,
	})
}

func init() {
	splitCmd.Flags().StringVar(&splitRepo, "original-repo", "", "hub dataset id to split (required)")
	splitCmd.Flags().Float64Var(&splitTestSize, "test-size", 0.2, "fraction of the train split to move to test")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 42, "random seed for the shuffle")
	splitCmd.Flags().StringVar(&splitToken, "token", "", "hub upload token (falls back to DATASET_HUB_TOKEN)")
	splitCmd.Flags().BoolVar(&splitPrivate, "private", false, "publish the dataset as private")
	_ = splitCmd.MarkFlagRequired("original-repo")
	rootCmd.AddCommand(splitCmd)
}
