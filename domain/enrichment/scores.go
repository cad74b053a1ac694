package enrichment

import (
	"math"

	"gorcr/domain/inference"
)

// ConcordanceP is the per-edge success probability under the fair-coin null.
const ConcordanceP = 0.5

// Background holds the graph-wide constants shared by every regulator.
type Background struct {
	Genes   int `json:"N"` // genes in the graph
	Changed int `json:"m"` // graph genes with a state change
}

// BackgroundOf derives N and m from an inference result.
func BackgroundOf(r *inference.Result) Background {
	return Background{Genes: r.GeneCount(), Changed: r.ChangedGeneCount()}
}

// Concordance is the binomial upper tail of observing at least c.Correct correctly
// directed edges among the informative, non-ambiguous edges of a hypothesis network:
//
//	Σ_{j=k}^{min(n−l, m)} C(n−l, j) p^j (1−p)^(n−l−j)
//
// where n counts downstream genes with a state change and l those classified
// ambiguous. Absent unless k > 0 and n−l ≥ k.
func Concordance(bg Background, c inference.Counts) Value {
	trials := c.Changed - c.Ambiguous
	k := c.Correct
	if c.Downstream == 0 || k <= 0 || trials < k {
		return Absent
	}

	upper := min(trials, bg.Changed)
	logP := math.Log(ConcordanceP)
	logQ := math.Log(1 - ConcordanceP)

	terms := make([]float64, 0, upper-k+1)
	for j := k; j <= upper; j++ {
		terms = append(terms, logChoose(trials, j)+float64(j)*logP+float64(trials-j)*logQ)
	}
	return Some(sumLogTerms(terms))
}

// Richness is the hypergeometric upper tail of drawing at least k changed genes when
// sampling the n downstream genes from N graph genes of which m changed:
//
//	Σ_{j=k}^{min(n, m)} C(m, j) C(N−m, n−j) / C(N, n)
//
// Absent for a regulator without targets, or unless n ≥ k and m ≥ k.
func Richness(bg Background, c inference.Counts) Value {
	n := c.Downstream
	k := c.Changed
	if n == 0 || n < k || bg.Changed < k || bg.Genes < n {
		return Absent
	}

	upper := min(n, bg.Changed)
	denom := logChoose(bg.Genes, n)

	terms := make([]float64, 0, upper-k+1)
	for j := k; j <= upper; j++ {
		terms = append(terms, logChoose(bg.Changed, j)+logChoose(bg.Genes-bg.Changed, n-j)-denom)
	}
	return Some(sumLogTerms(terms))
}
