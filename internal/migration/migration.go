package migration

import (
	"context"

	"gorcr/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements returns the DDL executed by Run, in order
func (r *MigrationRunner) Statements() []Step {
	return []Step{
		{Name: "analysis_runs table", SQL: createAnalysisRunsTable},
		{Name: "regulator_scores table", SQL: createRegulatorScoresTable},
		{Name: "indexes", SQL: createIndexes},
	}
}

// Step is one named migration statement
type Step struct {
	Name string
	SQL  string
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.Statements() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.DatabaseError("failed to create "+step.Name, err)
		}
	}
	return nil
}

const createAnalysisRunsTable = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id UUID PRIMARY KEY,
		fingerprint CHAR(64) NOT NULL,
		p_value_threshold DOUBLE PRECISION NOT NULL,
		fold_change_threshold DOUBLE PRECISION NOT NULL,
		gene_count INTEGER NOT NULL,
		changed_gene_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		ambiguous_edge_count INTEGER NOT NULL,
		regulator_count INTEGER NOT NULL,
		code_version VARCHAR(32) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const createRegulatorScoresTable = `
	CREATE TABLE IF NOT EXISTS regulator_scores (
		run_id UUID NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		gene VARCHAR(255) NOT NULL,
		total_weight INTEGER NOT NULL,
		direction VARCHAR(16) NOT NULL,
		downstream INTEGER NOT NULL,
		changed INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		contrast INTEGER NOT NULL,
		ambiguous INTEGER NOT NULL,
		unclassified INTEGER NOT NULL,
		concordance DOUBLE PRECISION,
		richness DOUBLE PRECISION,
		PRIMARY KEY (run_id, gene)
	)
`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_fingerprint ON analysis_runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_regulator_scores_run_position ON regulator_scores(run_id, position)
`
