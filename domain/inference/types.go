package inference

import (
	"gorcr/domain/causal"
	"gorcr/domain/expression"
)

// Classification judges one downstream observation against the regulator's aggregate direction.
type Classification string

const (
	Correct      Classification = "correct"
	Contrast     Classification = "contrast"
	Ambiguous    Classification = "ambiguous"
	Unclassified Classification = "unclassified"
)

func (c Classification) String() string {
	return string(c)
}

// Sign is a per-edge predicted regulation sign. Defined is false when the
// downstream gene has no state change.
type Sign struct {
	Value   int  `json:"value"`
	Defined bool `json:"defined"`
}

// Prediction is one row of a hypothesis network.
type Prediction struct {
	Target         string                 `json:"target"`
	Relation       causal.Relation        `json:"causal_rel"`
	State          expression.StateChange `json:"state_change"`
	Sign           Sign                   `json:"predicted_sign"`
	Classification Classification         `json:"classification"`
}

// Network is the classified hypothesis network of one upstream gene.
type Network struct {
	Upstream    string       `json:"upstream"`
	TotalWeight int          `json:"total_weight"`
	Predictions []Prediction `json:"predictions"`
}

// Counts tallies a network's predictions.
type Counts struct {
	Downstream   int `json:"downstream"`
	Changed      int `json:"changed"`
	Correct      int `json:"correct"`
	Contrast     int `json:"contrast"`
	Ambiguous    int `json:"ambiguous"`
	Unclassified int `json:"unclassified"`
}

// Counts returns the classification tallies of the network.
func (n Network) Counts() Counts {
	c := Counts{Downstream: len(n.Predictions)}
	for _, p := range n.Predictions {
		if p.State.IsChanged() {
			c.Changed++
		}
		switch p.Classification {
		case Correct:
			c.Correct++
		case Contrast:
			c.Contrast++
		case Ambiguous:
			c.Ambiguous++
		case Unclassified:
			c.Unclassified++
		}
	}
	return c
}

// Direction describes the sign of a total weight.
type Direction string

const (
	Activating    Direction = "activating"
	Inhibiting    Direction = "inhibiting"
	Indeterminate Direction = "indeterminate"
)

// DirectionOf maps a net weight to its inferred direction.
func DirectionOf(total int) Direction {
	switch {
	case total > 0:
		return Activating
	case total < 0:
		return Inhibiting
	default:
		return Indeterminate
	}
}
