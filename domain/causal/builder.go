package causal

// Build collapses candidate edges into a Graph. Candidates sharing the same directed
// (source, target) pair keep their relation when they all agree and become ambiguous
// otherwise. Node and adjacency order follow first appearance in candidates, so equal
// inputs always give equal graphs. Any candidate with a relation outside the closed set
// aborts construction with ErrInvalidRelation.
func Build(candidates []PathwayEdge) (*Graph, error) {
	for _, e := range candidates {
		if err := e.validate(); err != nil {
			return nil, err
		}
	}

	g := &Graph{
		index: make(map[string]int),
		edges: make(map[pair]Relation, len(candidates)),
	}

	// slot remembers where each edge lives in its source's adjacency list
	slot := make(map[pair]int, len(candidates))

	for _, e := range candidates {
		si := g.addNode(e.Source)
		g.addNode(e.Target)

		key := pair{e.Source, e.Target}
		prev, seen := g.edges[key]
		if !seen {
			g.edges[key] = e.Relation
			slot[key] = len(g.adjacency[si])
			g.adjacency[si] = append(g.adjacency[si], Neighbor{Gene: e.Target, Relation: e.Relation})
			continue
		}
		if prev != e.Relation && prev != Ambiguous {
			g.edges[key] = Ambiguous
			g.adjacency[si][slot[key]].Relation = Ambiguous
		}
	}

	for _, r := range g.edges {
		if r == Ambiguous {
			g.ambiguous++
		}
	}
	return g, nil
}

func (g *Graph) addNode(gene string) int {
	if i, ok := g.index[gene]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[gene] = i
	g.nodes = append(g.nodes, gene)
	g.adjacency = append(g.adjacency, nil)
	return i
}
