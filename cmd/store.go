package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/dataset-prep/internal/store"
)

// openStore builds the run-history store from config. Run history is
// advisory: any failure degrades to the no-op store with a warning
// instead of failing the pipeline.
func openStore(ctx context.Context) store.Store {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "off":
		return store.Noop{}
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		st, err = store.NewSQLite(cfg.Store.Path)
	}
	if err != nil {
		zap.L().Warn("run store unavailable, continuing without history",
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err),
		)
		return store.Noop{}
	}
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run store migration failed, continuing without history", zap.Error(err))
		st.Close()
		return store.Noop{}
	}
	return st
}

// withRun records the invocation in run history around fn.
func withRun(ctx context.Context, pipeline, detail string, fn func() error) error {
	st := openStore(ctx)
	defer st.Close() //nolint:errcheck

	run, err := st.CreateRun(ctx, pipeline, detail)
	if err != nil {
		zap.L().Warn("failed to record run start", zap.Error(err))
		run = nil
	}

	runErr := fn()

	if run != nil && run.ID != "" {
		if runErr != nil {
			if err := st.FailRun(ctx, run.ID, runErr); err != nil {
				zap.L().Warn("failed to record run failure", zap.Error(err))
			}
		} else if err := st.CompleteRun(ctx, run.ID); err != nil {
			zap.L().Warn("failed to record run completion", zap.Error(err))
		}
	}
	return runErr
}
