package expression

// GeneRecord is one row of a differential-expression profile.
type GeneRecord struct {
	Symbol        string  `json:"gene_symbol"`
	LogFoldChange float64 `json:"log_fold_change"`
	PValue        float64 `json:"p_value"`
}

// StateChange is the observed regulation state of a gene
type StateChange string

const (
	Increase StateChange = "increase"
	Decrease StateChange = "decrease"
	None     StateChange = "none"
)

// IsChanged reports whether the gene is differentially expressed.
func (s StateChange) IsChanged() bool {
	return s == Increase || s == Decrease
}

func (s StateChange) String() string {
	return string(s)
}

// Canonical thresholds.
const (
	DefaultPValueThreshold     = 0.01
	DefaultFoldChangeThreshold = 0.5
)

// Thresholds configures the StateClassifier. Both comparisons are strict.
type Thresholds struct {
	PValue     float64 `json:"p_value" yaml:"p_value"`
	FoldChange float64 `json:"fold_change" yaml:"fold_change"`
}

// DefaultThresholds returns P < 0.01 and |logFC| > 0.5.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PValue:     DefaultPValueThreshold,
		FoldChange: DefaultFoldChangeThreshold,
	}
}
