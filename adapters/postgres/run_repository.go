package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorcr/domain/core"
	"gorcr/domain/enrichment"
	"gorcr/domain/inference"
	"gorcr/domain/run"
	"gorcr/ports"

	"github.com/jmoiron/sqlx"
)

// runRepository implements ports.RunRepository for PostgreSQL
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

const runColumns = `id, fingerprint, p_value_threshold, fold_change_threshold, gene_count,
	changed_gene_count, edge_count, ambiguous_edge_count, regulator_count, code_version, created_at`

// regulatorRow is the table shape of a regulator record; absent scores are NULL
type regulatorRow struct {
	RunID        string          `db:"run_id"`
	Position     int             `db:"position"`
	Gene         string          `db:"gene"`
	TotalWeight  int             `db:"total_weight"`
	Direction    string          `db:"direction"`
	Downstream   int             `db:"downstream"`
	Changed      int             `db:"changed"`
	Correct      int             `db:"correct"`
	Contrast     int             `db:"contrast"`
	Ambiguous    int             `db:"ambiguous"`
	Unclassified int             `db:"unclassified"`
	Concordance  sql.NullFloat64 `db:"concordance"`
	Richness     sql.NullFloat64 `db:"richness"`
}

func toRegulatorRow(r run.RegulatorRecord) regulatorRow {
	return regulatorRow{
		RunID:        r.RunID.String(),
		Position:     r.Position,
		Gene:         r.Gene,
		TotalWeight:  r.TotalWeight,
		Direction:    string(r.Direction),
		Downstream:   r.Counts.Downstream,
		Changed:      r.Counts.Changed,
		Correct:      r.Counts.Correct,
		Contrast:     r.Counts.Contrast,
		Ambiguous:    r.Counts.Ambiguous,
		Unclassified: r.Counts.Unclassified,
		Concordance:  toNullFloat(r.Concordance),
		Richness:     toNullFloat(r.Richness),
	}
}

func (row regulatorRow) toRecord() run.RegulatorRecord {
	return run.RegulatorRecord{
		RunID:       core.RunID(row.RunID),
		Position:    row.Position,
		Gene:        row.Gene,
		TotalWeight: row.TotalWeight,
		Direction:   inference.Direction(row.Direction),
		Counts: inference.Counts{
			Downstream:   row.Downstream,
			Changed:      row.Changed,
			Correct:      row.Correct,
			Contrast:     row.Contrast,
			Ambiguous:    row.Ambiguous,
			Unclassified: row.Unclassified,
		},
		Concordance: fromNullFloat(row.Concordance),
		Richness:    fromNullFloat(row.Richness),
	}
}

func toNullFloat(v enrichment.Value) sql.NullFloat64 {
	p, ok := v.Get()
	return sql.NullFloat64{Float64: p, Valid: ok}
}

func fromNullFloat(n sql.NullFloat64) enrichment.Value {
	if !n.Valid {
		return enrichment.Absent
	}
	return enrichment.Some(n.Float64)
}

// SaveRun inserts the run and its regulators in one transaction
func (r *runRepository) SaveRun(ctx context.Context, rec run.Record, regulators []run.RegulatorRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `INSERT INTO analysis_runs (`+runColumns+`) VALUES (
		:id, :fingerprint, :p_value_threshold, :fold_change_threshold, :gene_count,
		:changed_gene_count, :edge_count, :ambiguous_edge_count, :regulator_count, :code_version, :created_at
	)`, rec)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO regulator_scores (
		run_id, position, gene, total_weight, direction, downstream, changed,
		correct, contrast, ambiguous, unclassified, concordance, richness
	) VALUES (
		:run_id, :position, :gene, :total_weight, :direction, :downstream, :changed,
		:correct, :contrast, :ambiguous, :unclassified, :concordance, :richness
	)`)
	if err != nil {
		return fmt.Errorf("failed to prepare regulator insert: %w", err)
	}
	defer stmt.Close()

	for _, reg := range regulators {
		row := toRegulatorRow(reg)
		row.RunID = rec.ID.String()
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert regulator %s: %w", reg.Gene, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", rec.ID, err)
	}
	return nil
}

// GetRun retrieves a run by its ID
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*run.Record, error) {
	var rec run.Record
	err := r.db.GetContext(ctx, &rec, `SELECT `+runColumns+` FROM analysis_runs WHERE id = $1`, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewRunNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns runs newest first; limit <= 0 returns all
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]run.Record, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var recs []run.Record
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return recs, nil
}

// FindByFingerprint returns runs with the given input fingerprint, newest first
func (r *runRepository) FindByFingerprint(ctx context.Context, fingerprint core.Hash) ([]run.Record, error) {
	var recs []run.Record
	err := r.db.SelectContext(ctx, &recs,
		`SELECT `+runColumns+` FROM analysis_runs WHERE fingerprint = $1 ORDER BY created_at DESC`, fingerprint.String())
	if err != nil {
		return nil, fmt.Errorf("failed to find runs by fingerprint: %w", err)
	}
	return recs, nil
}

// ListRegulators returns a run's regulators in gene order
func (r *runRepository) ListRegulators(ctx context.Context, id core.RunID) ([]run.RegulatorRecord, error) {
	if _, err := r.GetRun(ctx, id); err != nil {
		return nil, err
	}

	var rows []regulatorRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, position, gene, total_weight, direction, downstream, changed,
			correct, contrast, ambiguous, unclassified, concordance, richness
		FROM regulator_scores WHERE run_id = $1 ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list regulators: %w", err)
	}

	out := make([]run.RegulatorRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRecord())
	}
	return out, nil
}
