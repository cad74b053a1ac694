package tabular

import (
	"gorcr/domain/causal"
	"gorcr/domain/core"
)

// JoinOptions controls how pathway rows without any relation are treated
type JoinOptions struct {
	UnmappedAsAmbiguous bool
}

type edgeKey struct {
	source, target string
}

// CandidateEdges left-joins pathway rows with mapping rows on the directed pair.
// Each matching mapping row yields one candidate; a pathway row with no usable
// mapping falls back to its own interaction column. Exact duplicate candidates
// are dropped, keeping pathway order.
func CandidateEdges(pathway []PathwayRow, mapping []MappingRow, opts JoinOptions) ([]causal.PathwayEdge, error) {
	byPair := make(map[edgeKey][]MappingRow, len(mapping))
	for _, m := range mapping {
		k := edgeKey{m.Source, m.Target}
		byPair[k] = append(byPair[k], m)
	}

	seen := make(map[causal.PathwayEdge]struct{}, len(pathway))
	out := make([]causal.PathwayEdge, 0, len(pathway))
	emit := func(e causal.PathwayEdge) {
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}

	for _, p := range pathway {
		matched := false
		for _, m := range byPair[edgeKey{p.Source, p.Target}] {
			if m.Relation == "" {
				continue
			}
			matched = true
			emit(causal.PathwayEdge{Source: p.Source, Target: p.Target, Relation: m.Relation})
		}
		if matched {
			continue
		}

		rel, ok := p.Relation()
		if !ok {
			if !opts.UnmappedAsAmbiguous {
				return nil, core.NewInvalidRelationError(p.Source, p.Target, p.Interaction)
			}
			rel = causal.Ambiguous
		}
		emit(causal.PathwayEdge{Source: p.Source, Target: p.Target, Relation: rel})
	}
	return out, nil
}
