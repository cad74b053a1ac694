package enrichment

import (
	"context"
	"runtime"

	"gorcr/domain/core"
	"gorcr/domain/inference"

	"golang.org/x/sync/errgroup"
)

// Score holds both enrichment scores of one upstream gene.
type Score struct {
	Gene        string           `json:"gene"`
	Weight      int              `json:"total_weight"`
	Counts      inference.Counts `json:"counts"`
	Concordance Value            `json:"concordance"`
	Richness    Value            `json:"richness"`
}

// Scorer computes enrichment scores over an inference result.
type Scorer struct {
	workers int
}

// NewScorer returns a scorer running at most workers goroutines; workers <= 0
// means GOMAXPROCS.
func NewScorer(workers int) *Scorer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Scorer{workers: workers}
}

// Score computes the scores of one upstream gene.
func (s *Scorer) Score(r *inference.Result, gene string) (Score, error) {
	net, err := r.Network(gene)
	if err != nil {
		return Score{}, err
	}
	return scoreNetwork(BackgroundOf(r), net), nil
}

// ScoreAll scores every upstream gene in parallel. The result and the graph behind it
// are only read, and each goroutine writes its own slot, so no locking is needed.
// Cancellation aborts the whole run without a partial table.
func (s *Scorer) ScoreAll(ctx context.Context, r *inference.Result) (*Table, error) {
	genes := r.Genes()
	bg := BackgroundOf(r)
	scores := make([]Score, len(genes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, gene := range genes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			net, err := r.Network(gene)
			if err != nil {
				return err
			}
			scores[i] = scoreNetwork(bg, net)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newTable(bg, scores), nil
}

func scoreNetwork(bg Background, net inference.Network) Score {
	counts := net.Counts()
	return Score{
		Gene:        net.Upstream,
		Weight:      net.TotalWeight,
		Counts:      counts,
		Concordance: Concordance(bg, counts),
		Richness:    Richness(bg, counts),
	}
}

// Table is the score of every upstream gene, in graph node order.
type Table struct {
	Background Background `json:"background"`
	Scores     []Score    `json:"scores"`
	index      map[string]int
}

func newTable(bg Background, scores []Score) *Table {
	t := &Table{Background: bg, Scores: scores, index: make(map[string]int, len(scores))}
	for i, s := range scores {
		t.index[s.Gene] = i
	}
	return t
}

// Get returns the score of gene.
func (t *Table) Get(gene string) (Score, error) {
	i, ok := t.index[gene]
	if !ok {
		return Score{}, core.NewGeneNotFoundError(gene)
	}
	return t.Scores[i], nil
}

// Concordance returns the concordance of gene, absent when undefined.
func (t *Table) Concordance(gene string) (Value, error) {
	s, err := t.Get(gene)
	if err != nil {
		return Absent, err
	}
	return s.Concordance, nil
}

// Richness returns the richness of gene, absent when undefined.
func (t *Table) Richness(gene string) (Value, error) {
	s, err := t.Get(gene)
	if err != nil {
		return Absent, err
	}
	return s.Richness, nil
}

// Defined counts regulators with at least one defined score.
func (t *Table) Defined() int {
	n := 0
	for _, s := range t.Scores {
		if s.Concordance.Valid || s.Richness.Valid {
			n++
		}
	}
	return n
}
