package expression

import (
	"math"

	"gorcr/domain/core"
)

// Classifier assigns a StateChange to gene records using fixed thresholds.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier validates the thresholds and returns a classifier.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if math.IsNaN(t.PValue) || t.PValue <= 0 || t.PValue > 1 {
		return nil, core.NewInvalidThresholdError("p-value", t.PValue, "in (0, 1]")
	}
	if math.IsNaN(t.FoldChange) || t.FoldChange < 0 {
		return nil, core.NewInvalidThresholdError("fold-change", t.FoldChange, "non-negative")
	}
	return &Classifier{thresholds: t}, nil
}

// Thresholds returns the configured thresholds.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify returns increase, decrease or none for one record.
// NaN values never satisfy a strict comparison and classify as none.
func (c *Classifier) Classify(r GeneRecord) StateChange {
	if !(r.PValue < c.thresholds.PValue) {
		return None
	}
	switch {
	case r.LogFoldChange > c.thresholds.FoldChange:
		return Increase
	case r.LogFoldChange < -c.thresholds.FoldChange:
		return Decrease
	default:
		return None
	}
}

// ClassifyAll classifies every record of the snapshot once.
func (c *Classifier) ClassifyAll(s *Snapshot) States {
	states := make(States, s.Len())
	for _, r := range s.Records() {
		states[r.Symbol] = c.Classify(r)
	}
	return states
}
