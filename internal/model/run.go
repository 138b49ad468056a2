// Package model holds the shared domain types for pipeline runs.
package model

import "time"

// RunStatus tracks a pipeline run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one invocation of a pipeline command. Run history is
// advisory: it never gates pipeline behavior.
type Run struct {
	ID        string    `json:"id"`
	Pipeline  string    `json:"pipeline"`
	Detail    string    `json:"detail"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
