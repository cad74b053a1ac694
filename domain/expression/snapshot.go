package expression

import (
	"fmt"
	"math"
	"strings"

	"gorcr/domain/core"
)

// Snapshot is an immutable, symbol-unique set of expression records in input order.
type Snapshot struct {
	records []GeneRecord
	index   map[string]int
}

// NewSnapshot copies records into a snapshot. Empty or duplicate symbols and p-values
// outside [0, 1] are data errors; a NaN p-value is allowed and classifies as none.
// Ingestion adapters are expected to have resolved duplicates already.
func NewSnapshot(records []GeneRecord) (*Snapshot, error) {
	s := &Snapshot{
		records: make([]GeneRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		r.Symbol = strings.TrimSpace(r.Symbol)
		if r.Symbol == "" {
			return nil, core.NewDataError("expression snapshot", i+1, "empty gene symbol")
		}
		if _, dup := s.index[r.Symbol]; dup {
			return nil, core.NewDataError("expression snapshot", i+1, fmt.Sprintf("duplicate gene symbol %q", r.Symbol))
		}
		if !ValidPValue(r.PValue) {
			return nil, core.NewDataError("expression snapshot", i+1, fmt.Sprintf("p-value %v of %s outside [0, 1]", r.PValue, r.Symbol))
		}
		s.index[r.Symbol] = len(s.records)
		s.records = append(s.records, r)
	}
	return s, nil
}

// ValidPValue reports whether p is NaN or lies in [0, 1]
func ValidPValue(p float64) bool {
	return math.IsNaN(p) || (p >= 0 && p <= 1)
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in input order.
func (s *Snapshot) Records() []GeneRecord {
	out := make([]GeneRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get looks up a record by symbol.
func (s *Snapshot) Get(symbol string) (GeneRecord, bool) {
	i, ok := s.index[symbol]
	if !ok {
		return GeneRecord{}, false
	}
	return s.records[i], true
}

// States maps gene symbol to its classified state. Genes absent from the map are none.
type States map[string]StateChange

// Of returns the state of a gene, none when unknown.
func (st States) Of(symbol string) StateChange {
	if s, ok := st[symbol]; ok {
		return s
	}
	return None
}

// Count returns the number of increased and decreased genes.
func (st States) Count() (up, down int) {
	for _, s := range st {
		switch s {
		case Increase:
			up++
		case Decrease:
			down++
		}
	}
	return up, down
}
