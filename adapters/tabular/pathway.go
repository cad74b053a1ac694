package tabular

import (
	"fmt"
	"strings"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/internal"
)

// PathwayRow is one headerless source/interaction/target line
type PathwayRow struct {
	Source      string
	Interaction string
	Target      string
	Line        int
}

// Relation returns the interaction as a relation when it names one
func (r PathwayRow) Relation() (causal.Relation, bool) {
	return causal.ParseRelation(r.Interaction)
}

// ReadPathway loads a headerless pathway table with columns source, interaction, target
func ReadPathway(path string, logger *internal.Logger) ([]PathwayRow, error) {
	records, err := NewDataReader(path, logger).ReadRecords()
	if err != nil {
		return nil, err
	}

	rows := make([]PathwayRow, 0, len(records))
	for _, rec := range records {
		if len(rec.Fields) < 3 {
			return nil, core.NewDataError(path, rec.Line, fmt.Sprintf("expected 3 columns, got %d", len(rec.Fields)))
		}
		row := PathwayRow{
			Source:      strings.TrimSpace(rec.Fields[0]),
			Interaction: strings.TrimSpace(rec.Fields[1]),
			Target:      strings.TrimSpace(rec.Fields[2]),
			Line:        rec.Line,
		}
		if row.Source == "" || row.Target == "" {
			return nil, core.NewDataError(path, rec.Line, "empty gene symbol")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
