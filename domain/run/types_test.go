package run

import (
	"context"
	"testing"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/enrichment"
	"gorcr/domain/expression"
	"gorcr/domain/inference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	records = []expression.GeneRecord{
		{Symbol: "B", LogFoldChange: 1.5, PValue: 0.001},
		{Symbol: "C", LogFoldChange: -1.5, PValue: 0.001},
	}
	edges = []causal.PathwayEdge{
		{Source: "A", Target: "B", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Inhibition},
	}
)

func TestComputeFingerprint_Deterministic(t *testing.T) {
	th := expression.DefaultThresholds()
	fp1 := ComputeFingerprint(records, edges, th)
	fp2 := ComputeFingerprint(records, edges, th)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1.String(), 64)
}

func TestComputeFingerprint_RecordOrderIgnored(t *testing.T) {
	th := expression.DefaultThresholds()
	reversed := []expression.GeneRecord{records[1], records[0]}
	assert.Equal(t, ComputeFingerprint(records, edges, th), ComputeFingerprint(reversed, edges, th))
}

func TestComputeFingerprint_Sensitive(t *testing.T) {
	th := expression.DefaultThresholds()
	base := ComputeFingerprint(records, edges, th)

	assert.NotEqual(t, base, ComputeFingerprint(records, edges, expression.Thresholds{PValue: 0.05, FoldChange: 0.5}))
	assert.NotEqual(t, base, ComputeFingerprint(records, []causal.PathwayEdge{edges[1], edges[0]}, th))
	assert.NotEqual(t, base, ComputeFingerprint(records[:1], edges, th))

	changed := append([]causal.PathwayEdge(nil), edges...)
	changed[0].Relation = causal.Inhibition
	assert.NotEqual(t, base, ComputeFingerprint(records, changed, th))
}

func TestNewRecordAndRegulators(t *testing.T) {
	g, err := causal.Build(edges)
	require.NoError(t, err)
	res, err := inference.Infer(g, expression.States{"B": expression.Increase, "C": expression.Decrease})
	require.NoError(t, err)
	table, err := enrichment.NewScorer(1).ScoreAll(context.Background(), res)
	require.NoError(t, err)

	id := core.NewRunID()
	th := expression.DefaultThresholds()
	rec := NewRecord(id, ComputeFingerprint(records, edges, th), th, g, table)

	assert.Equal(t, id, rec.ID)
	assert.Equal(t, 3, rec.Genes)
	assert.Equal(t, 2, rec.ChangedGenes)
	assert.Equal(t, 2, rec.Edges)
	assert.Equal(t, 3, rec.Regulators)
	assert.Equal(t, CodeVersion, rec.CodeVersion)
	assert.False(t, rec.CreatedAt.IsZero())

	regs := RegulatorsFrom(id, table)
	require.Len(t, regs, 3)
	assert.Equal(t, "A", regs[0].Gene)
	assert.Equal(t, 0, regs[0].Position)
	assert.Equal(t, inference.Activating, regs[0].Direction)
	p, ok := regs[0].Concordance.Get()
	assert.True(t, ok)
	assert.InDelta(t, 0.75, p, 1e-12)
	assert.False(t, regs[1].Richness.Valid)
}
