package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"gorcr/domain/causal"
	"gorcr/domain/expression"
)

// TGFBetaGenes is a small gene set from the TGF-beta receptor pathway
var TGFBetaGenes = []string{"SMAD3", "SMAD4", "TGFBR2", "SPTBN1", "PML", "TGFB1", "DAB2"}

// FakePathwayConfig configures the fake pathway generator
type FakePathwayConfig struct {
	Genes []string `json:"genes"`
	Edges int      `json:"edges"`
	Seed  int64    `json:"seed"`
}

// DefaultFakePathwayConfig returns a 20-edge pathway over TGFBetaGenes
func DefaultFakePathwayConfig() FakePathwayConfig {
	return FakePathwayConfig{
		Genes: append([]string(nil), TGFBetaGenes...),
		Edges: 20,
		Seed:  0,
	}
}

// PathwayGenerator samples edges from the complete pairwise graph over a gene set
type PathwayGenerator struct {
	config FakePathwayConfig
	rng    *rand.Rand
}

// NewPathwayGenerator creates a generator seeded from config
func NewPathwayGenerator(config FakePathwayConfig) *PathwayGenerator {
	return &PathwayGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns Edges distinct pairs (i<j in gene order), each with a random
// activation or inhibition relation
func (g *PathwayGenerator) Generate() ([]causal.PathwayEdge, error) {
	genes := g.config.Genes
	relations := []causal.Relation{causal.Activation, causal.Inhibition}

	var pairwise []causal.PathwayEdge
	for i := 0; i < len(genes); i++ {
		for j := i + 1; j < len(genes); j++ {
			pairwise = append(pairwise, causal.PathwayEdge{
				Source:   genes[i],
				Target:   genes[j],
				Relation: relations[g.rng.Intn(len(relations))],
			})
		}
	}

	if g.config.Edges < 0 || g.config.Edges > len(pairwise) {
		return nil, fmt.Errorf("cannot sample %d edges from %d gene pairs", g.config.Edges, len(pairwise))
	}

	edges := make([]causal.PathwayEdge, 0, g.config.Edges)
	for _, idx := range g.rng.Perm(len(pairwise))[:g.config.Edges] {
		edges = append(edges, pairwise[idx])
	}
	return edges, nil
}

// WritePathway writes edges as a headerless source, relation, target TSV
func WritePathway(w io.Writer, edges []causal.PathwayEdge) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, e := range edges {
		if err := cw.Write([]string{e.Source, e.Relation.String(), e.Target}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExpressionConfig configures the synthetic expression generator
type ExpressionConfig struct {
	Genes        []string `json:"genes"`
	UpFraction   float64  `json:"up_fraction"`
	DownFraction float64  `json:"down_fraction"`
	Seed         int64    `json:"seed"`
}

// ExpressionGenerator produces gene records with a controlled share of
// significant up and down regulation under the default thresholds
type ExpressionGenerator struct {
	config ExpressionConfig
	rng    *rand.Rand
}

// NewExpressionGenerator creates a generator seeded from config
func NewExpressionGenerator(config ExpressionConfig) *ExpressionGenerator {
	return &ExpressionGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns one record per gene in input order
func (g *ExpressionGenerator) Generate() []expression.GeneRecord {
	th := expression.DefaultThresholds()
	records := make([]expression.GeneRecord, 0, len(g.config.Genes))
	for _, gene := range g.config.Genes {
		rec := expression.GeneRecord{Symbol: gene}
		u := g.rng.Float64()
		switch {
		case u < g.config.UpFraction:
			rec.LogFoldChange = th.FoldChange + 0.1 + 2*g.rng.Float64()
			rec.PValue = th.PValue * 0.9 * g.rng.Float64()
		case u < g.config.UpFraction+g.config.DownFraction:
			rec.LogFoldChange = -th.FoldChange - 0.1 - 2*g.rng.Float64()
			rec.PValue = th.PValue * 0.9 * g.rng.Float64()
		default:
			rec.LogFoldChange = (2*g.rng.Float64() - 1) * th.FoldChange * 0.9
			rec.PValue = th.PValue + (1-th.PValue)*g.rng.Float64()
		}
		records = append(records, rec)
	}
	return records
}

// WriteExpression writes records as a limma style top table
func WriteExpression(w io.Writer, records []expression.GeneRecord) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write([]string{"Gene.symbol", "logFC", "adj.P.Val"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Symbol,
			strconv.FormatFloat(r.LogFoldChange, 'g', -1, 64),
			strconv.FormatFloat(r.PValue, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ScenarioEdges is A -> B (activation), A -> C (inhibition)
func ScenarioEdges() []causal.PathwayEdge {
	return []causal.PathwayEdge{
		{Source: "A", Target: "B", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Inhibition},
	}
}

// ScenarioRecords has B significantly up and C significantly down
func ScenarioRecords() []expression.GeneRecord {
	return []expression.GeneRecord{
		{Symbol: "A", LogFoldChange: 0.1, PValue: 0.5},
		{Symbol: "B", LogFoldChange: 1.5, PValue: 0.001},
		{Symbol: "C", LogFoldChange: -1.5, PValue: 0.001},
	}
}
