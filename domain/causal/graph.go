package causal

import (
	"gorcr/domain/core"
)

// Neighbor is one outgoing edge of a node.
type Neighbor struct {
	Gene     string   `json:"gene"`
	Relation Relation `json:"relation"`
}

// Graph is the resolved causal network: a simple directed graph keyed by gene symbol.
// A Graph is never modified after Build returns it and is safe for concurrent reads.
type Graph struct {
	nodes     []string
	index     map[string]int
	adjacency [][]Neighbor
	edges     map[pair]Relation
	ambiguous int
}

// Genes returns every node in first-appearance order.
func (g *Graph) Genes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeCount returns the number of genes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of resolved edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// AmbiguousEdgeCount returns the number of edges resolved to ambiguous.
func (g *Graph) AmbiguousEdgeCount() int {
	return g.ambiguous
}

// HasGene reports whether gene is a node.
func (g *Graph) HasGene(gene string) bool {
	_, ok := g.index[gene]
	return ok
}

// Relation returns the resolved relation of the source -> target edge.
func (g *Graph) Relation(source, target string) (Relation, error) {
	r, ok := g.edges[pair{source, target}]
	if !ok {
		return "", core.NewEdgeNotFoundError(source, target)
	}
	return r, nil
}

// Edges returns all resolved edges, grouped by source in node order.
func (g *Graph) Edges() []PathwayEdge {
	out := make([]PathwayEdge, 0, len(g.edges))
	for i, src := range g.nodes {
		for _, nb := range g.adjacency[i] {
			out = append(out, PathwayEdge{Source: src, Target: nb.Gene, Relation: nb.Relation})
		}
	}
	return out
}
