package enrichment

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// logChoose returns log C(n, k), or -Inf when the coefficient is zero (k < 0 or k > n).
func logChoose(n, k int) float64 {
	if k < 0 || n < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	return combin.LogGeneralizedBinomial(float64(n), float64(k))
}

// sumLogTerms returns Σ exp(terms) evaluated in log space, clamped to [0, 1].
func sumLogTerms(terms []float64) float64 {
	finite := terms[:0:0]
	for _, t := range terms {
		if !math.IsInf(t, -1) && !math.IsNaN(t) {
			finite = append(finite, t)
		}
	}
	if len(finite) == 0 {
		return 0
	}
	return clamp01(math.Exp(floats.LogSumExp(finite)))
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
