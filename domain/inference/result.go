package inference

import (
	"gorcr/domain/core"
	"gorcr/domain/expression"
)

// Result is the weight table plus the inference table of one run. It is read-only
// once Infer returns it.
type Result struct {
	order    []string
	states   expression.States
	weights  map[string]int
	networks map[string]Network
}

// Genes returns the upstream genes in graph node order.
func (r *Result) Genes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Weight returns the net predicted regulation direction of an upstream gene.
func (r *Result) Weight(gene string) (int, error) {
	w, ok := r.weights[gene]
	if !ok {
		return 0, core.NewGeneNotFoundError(gene)
	}
	return w, nil
}

// Network returns the classified hypothesis network of an upstream gene.
func (r *Result) Network(gene string) (Network, error) {
	n, ok := r.networks[gene]
	if !ok {
		return Network{}, core.NewGeneNotFoundError(gene)
	}
	return copyNetwork(n), nil
}

// WeightTable returns a copy of gene -> total weight.
func (r *Result) WeightTable() map[string]int {
	out := make(map[string]int, len(r.weights))
	for k, v := range r.weights {
		out[k] = v
	}
	return out
}

// Table returns a copy of gene -> classified hypothesis network.
func (r *Result) Table() map[string]Network {
	out := make(map[string]Network, len(r.networks))
	for k, v := range r.networks {
		out[k] = copyNetwork(v)
	}
	return out
}

// State returns the state change of a graph gene.
func (r *Result) State(gene string) (expression.StateChange, error) {
	if _, ok := r.weights[gene]; !ok {
		return "", core.NewGeneNotFoundError(gene)
	}
	return r.states.Of(gene), nil
}

// GeneCount returns N, the number of genes in the graph.
func (r *Result) GeneCount() int {
	return len(r.order)
}

// ChangedGeneCount returns m, the number of graph genes with a state change.
func (r *Result) ChangedGeneCount() int {
	m := 0
	for _, g := range r.order {
		if r.states.Of(g).IsChanged() {
			m++
		}
	}
	return m
}

func copyNetwork(n Network) Network {
	preds := make([]Prediction, len(n.Predictions))
	copy(preds, n.Predictions)
	n.Predictions = preds
	return n
}
