// Package store persists pipeline run history behind a driver-selectable
// interface. SQLite is the default local driver; Postgres is available
// for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/dataset-prep/internal/model"
)

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, pipeline, detail string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string) error
	FailRun(ctx context.Context, runID string, cause error) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Noop discards all run history; used when the store driver is "off".
type Noop struct{}

func (Noop) CreateRun(context.Context, string, string) (*model.Run, error) {
	return &model.Run{Status: model.RunStatusRunning}, nil
}
func (Noop) CompleteRun(context.Context, string) error         { return nil }
func (Noop) FailRun(context.Context, string, error) error      { return nil }
func (Noop) ListRuns(context.Context, int) ([]model.Run, error) { return nil, nil }
func (Noop) Migrate(context.Context) error                     { return nil }
func (Noop) Close() error                                      { return nil }
