package run

import (
	"sort"
	"strconv"
	"time"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/enrichment"
	"gorcr/domain/expression"
	"gorcr/domain/inference"
)

// CodeVersion is recorded with every run so fingerprints change with the algorithm
const CodeVersion = "1.0.0"

// Record summarizes one analysis run
type Record struct {
	ID                  core.RunID `json:"id" db:"id"`
	Fingerprint         core.Hash  `json:"fingerprint" db:"fingerprint"`
	PValueThreshold     float64    `json:"p_value_threshold" db:"p_value_threshold"`
	FoldChangeThreshold float64    `json:"fold_change_threshold" db:"fold_change_threshold"`
	Genes               int        `json:"genes" db:"gene_count"`
	ChangedGenes        int        `json:"changed_genes" db:"changed_gene_count"`
	Edges               int        `json:"edges" db:"edge_count"`
	AmbiguousEdges      int        `json:"ambiguous_edges" db:"ambiguous_edge_count"`
	Regulators          int        `json:"regulators" db:"regulator_count"`
	CodeVersion         string     `json:"code_version" db:"code_version"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// RegulatorRecord is the persisted score row of one upstream gene
type RegulatorRecord struct {
	RunID       core.RunID          `json:"run_id"`
	Position    int                 `json:"position"`
	Gene        string              `json:"gene"`
	TotalWeight int                 `json:"total_weight"`
	Direction   inference.Direction `json:"direction"`
	Counts      inference.Counts    `json:"counts"`
	Concordance enrichment.Value    `json:"concordance"`
	Richness    enrichment.Value    `json:"richness"`
}

// NewRecord builds the run summary from a finished analysis
func NewRecord(id core.RunID, fingerprint core.Hash, th expression.Thresholds, g *causal.Graph, table *enrichment.Table) Record {
	return Record{
		ID:                  id,
		Fingerprint:         fingerprint,
		PValueThreshold:     th.PValue,
		FoldChangeThreshold: th.FoldChange,
		Genes:               table.Background.Genes,
		ChangedGenes:        table.Background.Changed,
		Edges:               g.EdgeCount(),
		AmbiguousEdges:      g.AmbiguousEdgeCount(),
		Regulators:          len(table.Scores),
		CodeVersion:         CodeVersion,
		CreatedAt:           time.Now().UTC(),
	}
}

// RegulatorsFrom flattens a score table in gene order
func RegulatorsFrom(id core.RunID, table *enrichment.Table) []RegulatorRecord {
	out := make([]RegulatorRecord, 0, len(table.Scores))
	for i, s := range table.Scores {
		out = append(out, RegulatorRecord{
			RunID:       id,
			Position:    i,
			Gene:        s.Gene,
			TotalWeight: s.Weight,
			Direction:   inference.DirectionOf(s.Weight),
			Counts:      s.Counts,
			Concordance: s.Concordance,
			Richness:    s.Richness,
		})
	}
	return out
}

// ComputeFingerprint hashes everything that determines a run's output. Expression
// records are sorted by symbol since their order has no effect; candidate edges
// keep their order because it fixes gene order.
func ComputeFingerprint(records []expression.GeneRecord, edges []causal.PathwayEdge, th expression.Thresholds) core.Hash {
	sorted := append([]expression.GeneRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	f := core.NewFingerprinter().
		String("code").String(CodeVersion).
		String("thresholds").Float(th.PValue).Float(th.FoldChange).
		String("records").String(strconv.Itoa(len(sorted)))
	for _, r := range sorted {
		f.String(r.Symbol).Float(r.LogFoldChange).Float(r.PValue)
	}
	f.String("edges").String(strconv.Itoa(len(edges)))
	for _, e := range edges {
		f.String(e.Source).String(e.Target).String(e.Relation.String())
	}
	return f.Sum()
}
