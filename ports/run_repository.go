package ports

import (
	"context"

	"gorcr/domain/core"
	"gorcr/domain/run"
)

// RunRepository persists analysis runs and their regulator scores
type RunRepository interface {
	// SaveRun stores a run and all of its regulator rows atomically
	SaveRun(ctx context.Context, rec run.Record, regulators []run.RegulatorRecord) error

	// GetRun returns a run by ID, or an error wrapping core.ErrRunNotFound
	GetRun(ctx context.Context, id core.RunID) (*run.Record, error)

	// ListRuns returns the most recent runs first, optionally limited
	ListRuns(ctx context.Context, limit int) ([]run.Record, error)

	// FindByFingerprint returns runs whose inputs hashed to fingerprint, most recent first
	FindByFingerprint(ctx context.Context, fingerprint core.Hash) ([]run.Record, error)

	// ListRegulators returns a run's regulator rows in gene order
	ListRegulators(ctx context.Context, id core.RunID) ([]run.RegulatorRecord, error)
}
