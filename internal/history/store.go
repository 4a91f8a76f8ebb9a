// Package history keeps a local log of profiling runs. Only run metadata
// is stored; reports are never persisted.
package history

import (
	"context"
	"time"
)

// Status is the outcome of a profiling run.
type Status string

// Run statuses.
const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Run is one recorded profiling run.
type Run struct {
	ID        string        `json:"id"`
	Table     string        `json:"table"`
	Target    string        `json:"target,omitempty"`
	Format    string        `json:"format"`
	Status    Status        `json:"status"`
	Rows      int           `json:"rows"`
	Columns   int           `json:"columns"`
	Alerts    int           `json:"alerts"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Store persists run metadata.
type Store interface {
	// Record saves a run. An empty ID is filled in.
	Record(ctx context.Context, run *Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]*Run, error)

	// Get returns a run by ID.
	Get(ctx context.Context, id string) (*Run, error)

	// Close releases the underlying database.
	Close() error
}
