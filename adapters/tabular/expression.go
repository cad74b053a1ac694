package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorcr/domain/core"
	"gorcr/domain/expression"
	"gorcr/internal"
)

// ExpressionColumns names the headers holding each record field
type ExpressionColumns struct {
	Symbol        string
	LogFoldChange string
	PValue        string
}

// DefaultExpressionColumns matches a limma top table
func DefaultExpressionColumns() ExpressionColumns {
	return ExpressionColumns{Symbol: "Gene.symbol", LogFoldChange: "logFC", PValue: "adj.P.Val"}
}

// ReadExpression loads a differential expression table into a snapshot.
// Rows without a symbol are skipped. Repeated symbols keep their first row.
func ReadExpression(path string, cols ExpressionColumns, logger *internal.Logger) (*expression.Snapshot, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	data, err := NewDataReader(path, logger).ReadData()
	if err != nil {
		return nil, err
	}
	for _, c := range []string{cols.Symbol, cols.LogFoldChange, cols.PValue} {
		if !data.HasColumn(c) {
			return nil, core.NewDataError(path, 1, fmt.Sprintf("missing column %q", c))
		}
	}

	seen := make(map[string]struct{}, len(data.Rows))
	records := make([]expression.GeneRecord, 0, len(data.Rows))
	skipped, duplicates := 0, 0
	for i, row := range data.Rows {
		line := data.Lines[i]
		symbol := row[cols.Symbol]
		if symbol == "" {
			skipped++
			continue
		}
		fc, err := parseNumber(row[cols.LogFoldChange])
		if err != nil {
			return nil, core.NewDataError(path, line, fmt.Sprintf("column %s: %v", cols.LogFoldChange, err))
		}
		p, err := parseNumber(row[cols.PValue])
		if err != nil {
			return nil, core.NewDataError(path, line, fmt.Sprintf("column %s: %v", cols.PValue, err))
		}
		if !expression.ValidPValue(p) {
			return nil, core.NewDataError(path, line, fmt.Sprintf("column %s: p-value %v outside [0, 1]", cols.PValue, p))
		}
		if _, dup := seen[symbol]; dup {
			duplicates++
			logger.Trace("[Expression] duplicate symbol %s at line %d ignored", symbol, line)
			continue
		}
		seen[symbol] = struct{}{}
		records = append(records, expression.GeneRecord{Symbol: symbol, LogFoldChange: fc, PValue: p})
	}

	if len(records) == 0 {
		return nil, core.NewDataError(path, 0, "no gene records")
	}
	if skipped > 0 || duplicates > 0 {
		logger.Info("[Expression] %s: %d rows without symbol skipped, %d duplicate symbols ignored", path, skipped, duplicates)
	}
	snap, err := expression.NewSnapshot(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// parseNumber reads a float; empty and NA cells are NaN, which classifies as no change
func parseNumber(s string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NA", "NAN", "NULL":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
