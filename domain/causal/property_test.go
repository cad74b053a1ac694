package causal

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	propGenes     = []string{"SMAD3", "SMAD4", "TGFBR2"}
	propRelations = []Relation{Activation, Inhibition}
)

// decodeEdges turns generated integers into candidate edges over a small gene set
// so that duplicate pairs are frequent.
func decodeEdges(codes []int) []PathwayEdge {
	edges := make([]PathwayEdge, len(codes))
	n := len(propGenes)
	for i, c := range codes {
		edges[i] = PathwayEdge{
			Source:   propGenes[c%n],
			Target:   propGenes[(c/n)%n],
			Relation: propRelations[(c/(n*n))%len(propRelations)],
		}
	}
	return edges
}

// TestBuildInvariants checks resolution invariants over random candidate lists.
func TestBuildInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	codes := gen.SliceOf(gen.IntRange(0, len(propGenes)*len(propGenes)*len(propRelations)-1))

	properties.Property("conflicting duplicates resolve to ambiguous, agreeing ones keep their relation", prop.ForAll(
		func(cs []int) bool {
			edges := decodeEdges(cs)
			g, err := Build(edges)
			if err != nil {
				return false
			}

			seen := make(map[pair]map[Relation]bool)
			for _, e := range edges {
				k := pair{e.Source, e.Target}
				if seen[k] == nil {
					seen[k] = make(map[Relation]bool)
				}
				seen[k][e.Relation] = true
			}

			if g.EdgeCount() != len(seen) {
				return false
			}
			for k, rels := range seen {
				got, err := g.Relation(k.source, k.target)
				if err != nil {
					return false
				}
				if len(rels) > 1 && got != Ambiguous {
					return false
				}
				if len(rels) == 1 && !rels[got] {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("construction is deterministic", prop.ForAll(
		func(cs []int) bool {
			edges := decodeEdges(cs)
			g1, err1 := Build(edges)
			g2, err2 := Build(edges)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(g1.Genes(), g2.Genes()) &&
				reflect.DeepEqual(g1.Edges(), g2.Edges())
		},
		codes,
	))

	properties.Property("every endpoint is a node and only endpoints are nodes", prop.ForAll(
		func(cs []int) bool {
			edges := decodeEdges(cs)
			g, err := Build(edges)
			if err != nil {
				return false
			}
			endpoints := make(map[string]bool)
			for _, e := range edges {
				endpoints[e.Source] = true
				endpoints[e.Target] = true
			}
			if g.NodeCount() != len(endpoints) {
				return false
			}
			for gene := range endpoints {
				if !g.HasGene(gene) {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.TestingRun(t)
}
