package causal

import (
	"strings"

	"gorcr/domain/core"
)

// Relation is the causal effect of a source gene on a target gene.
type Relation string

const (
	Activation Relation = "activation"
	Inhibition Relation = "inhibition"
	Ambiguous  Relation = "ambiguous"
)

// Valid reports whether r belongs to the closed relation set.
func (r Relation) Valid() bool {
	switch r {
	case Activation, Inhibition, Ambiguous:
		return true
	}
	return false
}

func (r Relation) String() string {
	return string(r)
}

// ParseRelation normalizes case and surrounding whitespace.
func ParseRelation(s string) (Relation, bool) {
	r := Relation(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// PathwayEdge is one candidate edge before duplicate resolution.
type PathwayEdge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
}

func (e PathwayEdge) validate() error {
	if !e.Relation.Valid() {
		return core.NewInvalidRelationError(e.Source, e.Target, string(e.Relation))
	}
	return nil
}

type pair struct {
	source, target string
}
