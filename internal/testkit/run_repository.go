package testkit

import (
	"context"
	"sort"
	"sync"

	"gorcr/domain/core"
	"gorcr/domain/run"
)

// InMemoryRunRepository is a ports.RunRepository kept in process memory
type InMemoryRunRepository struct {
	mu         sync.RWMutex
	runs       map[core.RunID]run.Record
	regulators map[core.RunID][]run.RegulatorRecord
	order      []core.RunID
}

// NewInMemoryRunRepository creates an empty repository
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{
		runs:       make(map[core.RunID]run.Record),
		regulators: make(map[core.RunID][]run.RegulatorRecord),
	}
}

func (r *InMemoryRunRepository) SaveRun(ctx context.Context, rec run.Record, regulators []run.RegulatorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[rec.ID]; !exists {
		r.order = append(r.order, rec.ID)
	}
	r.runs[rec.ID] = rec
	regs := make([]run.RegulatorRecord, len(regulators))
	for i, reg := range regulators {
		reg.RunID = rec.ID
		regs[i] = reg
	}
	r.regulators[rec.ID] = regs
	return nil
}

func (r *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.runs[id]
	if !ok {
		return nil, core.NewRunNotFoundError(id.String())
	}
	return &rec, nil
}

func (r *InMemoryRunRepository) ListRuns(ctx context.Context, limit int) ([]run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.newestFirst(func(run.Record) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRunRepository) FindByFingerprint(ctx context.Context, fingerprint core.Hash) ([]run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(rec run.Record) bool { return rec.Fingerprint == fingerprint }), nil
}

func (r *InMemoryRunRepository) ListRegulators(ctx context.Context, id core.RunID) ([]run.RegulatorRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs, ok := r.regulators[id]
	if !ok {
		return nil, core.NewRunNotFoundError(id.String())
	}
	return append([]run.RegulatorRecord(nil), regs...), nil
}

// newestFirst must be called with the lock held
func (r *InMemoryRunRepository) newestFirst(keep func(run.Record) bool) []run.Record {
	out := make([]run.Record, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if rec := r.runs[r.order[i]]; keep(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
