package tabular

import (
	"fmt"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/internal"
)

// MappingRow assigns a relation to a directed gene pair. Relation is empty when the cell was blank.
type MappingRow struct {
	Source   string
	Target   string
	Relation causal.Relation
	Line     int
}

// ReadMapping loads a headed mapping table. Columns are located by name, so a
// leading index column is ignored.
func ReadMapping(path string, logger *internal.Logger) ([]MappingRow, error) {
	data, err := NewDataReader(path, logger).ReadData()
	if err != nil {
		return nil, err
	}
	for _, c := range []string{"source", "target", "relation"} {
		if !data.HasColumn(c) {
			return nil, core.NewDataError(path, 1, fmt.Sprintf("missing column %q", c))
		}
	}

	rows := make([]MappingRow, 0, len(data.Rows))
	for i, row := range data.Rows {
		line := data.Lines[i]
		m := MappingRow{Source: row["source"], Target: row["target"], Line: line}
		if m.Source == "" || m.Target == "" {
			return nil, core.NewDataError(path, line, "empty gene symbol")
		}
		if raw := row["relation"]; raw != "" {
			rel, ok := causal.ParseRelation(raw)
			if !ok {
				return nil, fmt.Errorf("%s line %d: %w", path, line, core.NewInvalidRelationError(m.Source, m.Target, raw))
			}
			m.Relation = rel
		}
		rows = append(rows, m)
	}
	return rows, nil
}
