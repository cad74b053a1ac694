package app

import (
	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/enrichment"
	"gorcr/domain/expression"
	"gorcr/domain/inference"
)

// Analysis is the read-only outcome of one run. All methods are safe for
// concurrent use.
type Analysis struct {
	runID       core.RunID
	fingerprint core.Hash
	thresholds  expression.Thresholds
	snapshot    *expression.Snapshot
	states      expression.States
	graph       *causal.Graph
	result      *inference.Result
	scores      *enrichment.Table
}

func (a *Analysis) RunID() core.RunID                 { return a.runID }
func (a *Analysis) Fingerprint() core.Hash            { return a.fingerprint }
func (a *Analysis) Thresholds() expression.Thresholds { return a.thresholds }
func (a *Analysis) Graph() *causal.Graph              { return a.graph }
func (a *Analysis) Snapshot() *expression.Snapshot    { return a.snapshot }
func (a *Analysis) Scores() *enrichment.Table         { return a.scores }

// AllGenes returns every gene in the causal graph in first-appearance order
func (a *Analysis) AllGenes() []string {
	return a.graph.Genes()
}

// Relation returns the resolved relation of a directed edge
func (a *Analysis) Relation(source, target string) (causal.Relation, error) {
	return a.graph.Relation(source, target)
}

// Hypothesis returns the downstream genes of gene with their relations
func (a *Analysis) Hypothesis(gene string) ([]causal.Neighbor, error) {
	return a.graph.Hypothesis(gene)
}

// CausalInference returns the weight and inference tables
func (a *Analysis) CausalInference() *inference.Result {
	return a.result
}

// State returns the state change of a graph gene
func (a *Analysis) State(gene string) (expression.StateChange, error) {
	return a.result.State(gene)
}

// Concordance returns the concordance of gene; the value is absent when undefined
func (a *Analysis) Concordance(gene string) (enrichment.Value, error) {
	return a.scores.Concordance(gene)
}

// Richness returns the richness of gene; the value is absent when undefined
func (a *Analysis) Richness(gene string) (enrichment.Value, error) {
	return a.scores.Richness(gene)
}

// Score returns both scores of gene with its counts
func (a *Analysis) Score(gene string) (enrichment.Score, error) {
	return a.scores.Get(gene)
}
