package causal

import (
	"gorcr/domain/core"
)

// Hypothesis returns the HYP network of an upstream gene: its direct successors with
// their edge relations, in adjacency order. A node without outgoing edges yields an
// empty slice. A gene that is not a node is a lookup error.
func (g *Graph) Hypothesis(gene string) ([]Neighbor, error) {
	i, ok := g.index[gene]
	if !ok {
		return nil, core.NewGeneNotFoundError(gene)
	}
	out := make([]Neighbor, len(g.adjacency[i]))
	copy(out, g.adjacency[i])
	return out, nil
}

// OutDegree returns the number of downstream targets of gene, 0 when unknown.
func (g *Graph) OutDegree(gene string) int {
	i, ok := g.index[gene]
	if !ok {
		return 0
	}
	return len(g.adjacency[i])
}
