package tabular

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gorcr/domain/causal"
	"gorcr/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"top.table.tsv", FileTypeTSV},
		{"pathway.txt", FileTypeTSV},
		{"genes.CSV", FileTypeCSV},
		{"genes.xlsx", FileTypeXLSX},
		{"noext", FileTypeTSV},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFileType(tt.path), tt.path)
	}
}

func TestReadExpression_TSV(t *testing.T) {
	path := writeFile(t, "top.table.tsv",
		"ID\tadj.P.Val\tlogFC\tGene.symbol\n"+
			"1\t0.001\t1.2\tSMAD3\n"+
			"2\t0.002\t-0.9\tPML\n"+
			"3\t0.5\t2.0\t\n"+
			"4\t0.003\t0.1\tSMAD3\n"+
			"\n"+
			"5\tNA\t0.7\tDAB2\n")

	snap, err := ReadExpression(path, DefaultExpressionColumns(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Len())
	smad3, ok := snap.Get("SMAD3")
	require.True(t, ok)
	assert.Equal(t, 1.2, smad3.LogFoldChange, "first occurrence wins")

	dab2, ok := snap.Get("DAB2")
	require.True(t, ok)
	assert.True(t, math.IsNaN(dab2.PValue))
}

func TestReadExpression_CSVWithCustomColumns(t *testing.T) {
	path := writeFile(t, "genes.csv", "gene,fc,p\nTGFB1,0.8,0.0001\n")

	snap, err := ReadExpression(path, ExpressionColumns{Symbol: "gene", LogFoldChange: "fc", PValue: "p"}, nil)
	require.NoError(t, err)
	rec, ok := snap.Get("TGFB1")
	require.True(t, ok)
	assert.Equal(t, 0.8, rec.LogFoldChange)
	assert.Equal(t, 0.0001, rec.PValue)
}

func TestReadExpression_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Gene.symbol", "logFC", "adj.P.Val"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"SMAD4", -1.5, 0.004}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"TGFBR2", 0.2, 0.3}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	snap, err := ReadExpression(path, DefaultExpressionColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	rec, ok := snap.Get("SMAD4")
	require.True(t, ok)
	assert.Equal(t, -1.5, rec.LogFoldChange)
}

func TestReadExpression_Errors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		path := writeFile(t, "a.tsv", "Gene.symbol\tlogFC\nSMAD3\t1\n")
		_, err := ReadExpression(path, DefaultExpressionColumns(), nil)
		require.Error(t, err)
		assert.True(t, core.IsDataError(err))
		assert.Contains(t, err.Error(), "adj.P.Val")
	})

	t.Run("non numeric field reports line", func(t *testing.T) {
		path := writeFile(t, "b.tsv", "Gene.symbol\tlogFC\tadj.P.Val\nSMAD3\t1\t0.01\nPML\thigh\t0.01\n")
		_, err := ReadExpression(path, DefaultExpressionColumns(), nil)
		require.Error(t, err)
		assert.True(t, core.IsDataError(err))
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("p-value outside unit interval reports line", func(t *testing.T) {
		for _, p := range []string{"-3", "1.5", "Inf"} {
			path := writeFile(t, "p.tsv", "Gene.symbol\tlogFC\tadj.P.Val\nSMAD3\t1\t0.01\nA\t2.0\t"+p+"\n")
			_, err := ReadExpression(path, DefaultExpressionColumns(), nil)
			require.Error(t, err, p)
			assert.True(t, core.IsDataError(err), p)
			assert.Contains(t, err.Error(), "line 3", p)
		}
	})

	t.Run("NA p-value is accepted", func(t *testing.T) {
		path := writeFile(t, "na.tsv", "Gene.symbol\tlogFC\tadj.P.Val\nA\t2.0\tNA\n")
		snap, err := ReadExpression(path, DefaultExpressionColumns(), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Len())
	})

	t.Run("no records", func(t *testing.T) {
		path := writeFile(t, "c.tsv", "Gene.symbol\tlogFC\tadj.P.Val\n")
		_, err := ReadExpression(path, DefaultExpressionColumns(), nil)
		assert.True(t, core.IsDataError(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadExpression(filepath.Join(t.TempDir(), "nope.tsv"), DefaultExpressionColumns(), nil)
		assert.True(t, core.IsDataError(err))
	})
}

func TestReadPathway(t *testing.T) {
	path := writeFile(t, "pathway.txt",
		"TGFB1\tactivation\tTGFBR2\n"+
			"TGFBR2\tcontrols-state-change-of\tSMAD3\n")

	rows, err := ReadPathway(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rel, ok := rows[0].Relation()
	assert.True(t, ok)
	assert.Equal(t, causal.Activation, rel)

	_, ok = rows[1].Relation()
	assert.False(t, ok)
	assert.Equal(t, 2, rows[1].Line)
}

func TestReadPathway_ShortRow(t *testing.T) {
	path := writeFile(t, "pathway.txt", "A\tactivation\tB\nC\tD\n")
	_, err := ReadPathway(path, nil)
	require.Error(t, err)
	assert.True(t, core.IsDataError(err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadMapping_IndexColumn(t *testing.T) {
	path := writeFile(t, "map.tsv",
		"\tsource\ttarget\trelation\n"+
			"0\tTGFB1\tTGFBR2\tactivation\n"+
			"1\tSMAD7\tTGFBR1\tInhibition\n"+
			"2\tPML\tSMAD3\t\n")

	rows, err := ReadMapping(path, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, MappingRow{Source: "TGFB1", Target: "TGFBR2", Relation: causal.Activation, Line: 2}, rows[0])
	assert.Equal(t, causal.Inhibition, rows[1].Relation)
	assert.Equal(t, causal.Relation(""), rows[2].Relation)
}

func TestReadMapping_InvalidRelation(t *testing.T) {
	path := writeFile(t, "map.tsv", "source\ttarget\trelation\nA\tB\tbinds\n")
	_, err := ReadMapping(path, nil)
	require.Error(t, err)
	assert.True(t, core.IsInvalidRelationError(err))
}

func TestCandidateEdges(t *testing.T) {
	pathway := []PathwayRow{
		{Source: "A", Interaction: "controls", Target: "B"},
		{Source: "A", Interaction: "controls", Target: "C"},
		{Source: "B", Interaction: "inhibition", Target: "C"},
		{Source: "A", Interaction: "controls", Target: "B"},
	}
	mapping := []MappingRow{
		{Source: "A", Target: "B", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Inhibition},
	}

	edges, err := CandidateEdges(pathway, mapping, JoinOptions{})
	require.NoError(t, err)
	assert.Equal(t, []causal.PathwayEdge{
		{Source: "A", Target: "B", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Inhibition},
		{Source: "B", Target: "C", Relation: causal.Inhibition},
	}, edges)

	g, err := causal.Build(edges)
	require.NoError(t, err)
	rel, err := g.Relation("A", "C")
	require.NoError(t, err)
	assert.Equal(t, causal.Ambiguous, rel)
}

func TestCandidateEdges_Unmapped(t *testing.T) {
	pathway := []PathwayRow{{Source: "X", Interaction: "binds", Target: "Y"}}

	_, err := CandidateEdges(pathway, nil, JoinOptions{})
	require.Error(t, err)
	assert.True(t, core.IsInvalidRelationError(err))

	edges, err := CandidateEdges(pathway, nil, JoinOptions{UnmappedAsAmbiguous: true})
	require.NoError(t, err)
	assert.Equal(t, []causal.PathwayEdge{{Source: "X", Target: "Y", Relation: causal.Ambiguous}}, edges)
}

func TestCandidateEdges_BlankMappingFallsBack(t *testing.T) {
	pathway := []PathwayRow{{Source: "X", Interaction: "inhibition", Target: "Y"}}
	mapping := []MappingRow{{Source: "X", Target: "Y"}}

	edges, err := CandidateEdges(pathway, mapping, JoinOptions{})
	require.NoError(t, err)
	assert.Equal(t, []causal.PathwayEdge{{Source: "X", Target: "Y", Relation: causal.Inhibition}}, edges)
}
