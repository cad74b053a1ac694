package inference

import (
	"fmt"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/expression"
)

// PredictedSign implements the reverse-causal sign table. A gene without a state
// change has no sign whatever the relation; an ambiguous edge predicts 0.
func PredictedSign(state expression.StateChange, rel causal.Relation) (Sign, error) {
	if !rel.Valid() {
		return Sign{}, fmt.Errorf("%w %q", core.ErrInvalidRelation, rel)
	}
	switch state {
	case expression.None:
		return Sign{}, nil
	case expression.Increase:
		switch rel {
		case causal.Activation:
			return Sign{Value: 1, Defined: true}, nil
		case causal.Inhibition:
			return Sign{Value: -1, Defined: true}, nil
		}
	case expression.Decrease:
		switch rel {
		case causal.Activation:
			return Sign{Value: -1, Defined: true}, nil
		case causal.Inhibition:
			return Sign{Value: 1, Defined: true}, nil
		}
	default:
		return Sign{}, fmt.Errorf("unknown state change %q", state)
	}
	return Sign{Value: 0, Defined: true}, nil
}

// Classify judges one downstream state against the upstream gene's total weight.
func Classify(state expression.StateChange, total int) Classification {
	switch {
	case !state.IsChanged():
		return Unclassified
	case total > 0 && state == expression.Increase:
		return Correct
	case total > 0 && state == expression.Decrease:
		return Contrast
	case total < 0 && state == expression.Decrease:
		return Correct
	case total < 0 && state == expression.Increase:
		return Contrast
	default:
		return Ambiguous
	}
}

// Infer builds the classified hypothesis network of every graph node. The result is
// a pure function of the graph and the states.
func Infer(g *causal.Graph, states expression.States) (*Result, error) {
	genes := g.Genes()
	r := &Result{
		order:    genes,
		states:   make(expression.States, len(genes)),
		weights:  make(map[string]int, len(genes)),
		networks: make(map[string]Network, len(genes)),
	}

	for _, gene := range genes {
		r.states[gene] = states.Of(gene)
	}

	for _, up := range genes {
		net, err := inferNetwork(g, states, up)
		if err != nil {
			return nil, err
		}
		r.weights[up] = net.TotalWeight
		r.networks[up] = net
	}
	return r, nil
}

func inferNetwork(g *causal.Graph, states expression.States, up string) (Network, error) {
	hyp, err := g.Hypothesis(up)
	if err != nil {
		return Network{}, err
	}

	net := Network{Upstream: up, Predictions: make([]Prediction, len(hyp))}
	for i, nb := range hyp {
		state := states.Of(nb.Gene)
		sign, err := PredictedSign(state, nb.Relation)
		if err != nil {
			return Network{}, fmt.Errorf("edge %s -> %s: %w", up, nb.Gene, err)
		}
		net.Predictions[i] = Prediction{
			Target:   nb.Gene,
			Relation: nb.Relation,
			State:    state,
			Sign:     sign,
		}
		if sign.Defined {
			net.TotalWeight += sign.Value
		}
	}

	// classification needs the aggregate, so it runs as a second pass
	for i := range net.Predictions {
		net.Predictions[i].Classification = Classify(net.Predictions[i].State, net.TotalWeight)
	}
	return net, nil
}
