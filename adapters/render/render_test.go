package render

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gorcr/domain/causal"
	"gorcr/domain/core"
	"gorcr/domain/expression"
	"gorcr/domain/inference"
	"gorcr/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(t *testing.T) (*causal.Graph, *inference.Result) {
	t.Helper()
	g, err := causal.Build([]causal.PathwayEdge{
		{Source: "A", Target: "B", Relation: causal.Activation},
		{Source: "A", Target: "C", Relation: causal.Inhibition},
		{Source: "D", Target: "A", Relation: causal.Inhibition},
	})
	require.NoError(t, err)
	res, err := inference.Infer(g, expression.States{"B": expression.Increase, "C": expression.Decrease})
	require.NoError(t, err)
	return g, res
}

func TestCheckOutput(t *testing.T) {
	for _, p := range []string{"net.pdf", "out/net.svg", "net.png", "a.b.jpg"} {
		assert.NoError(t, CheckOutput(p), p)
	}
	for _, p := range []string{"net.gif", "net", "net.PNG", "net.jpeg"} {
		err := CheckOutput(p)
		require.Error(t, err, p)
		assert.True(t, core.IsUnsupportedFormatError(err), p)
	}
}

func TestParseView(t *testing.T) {
	v, ok := ParseView("full")
	assert.True(t, ok)
	assert.Equal(t, ViewFull, v)
	_, ok = ParseView("circle")
	assert.False(t, ok)
}

func TestPathwayDOT(t *testing.T) {
	g, _ := scenario(t)

	out, err := PathwayDOT(g)
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "digraph pathway {"))
	assert.Equal(t, 4, strings.Count(s, "fillcolor=orange"))
	assert.Contains(t, s, "A -> B")
	assert.Contains(t, s, "label=inhibition")
}

func TestHypothesisDOT(t *testing.T) {
	_, res := scenario(t)

	out, err := HypothesisDOT(res, "A")
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "fillcolor=orange")
	assert.Contains(t, s, "fillcolor=darkred")
	assert.Contains(t, s, "fillcolor=darkgreen")
	// B is correct via activation, C is a contrast
	assert.Contains(t, s, "color=red")
	assert.Contains(t, s, "color=black")
	assert.Equal(t, 2, strings.Count(s, "->"))

	_, err = HypothesisDOT(res, "Z")
	assert.True(t, core.IsNotFoundError(err))
}

func TestFullNetworkDOT(t *testing.T) {
	_, res := scenario(t)

	out, err := FullNetworkDOT(res)
	require.NoError(t, err)
	s := string(out)

	// A has weight 2, D has weight 0 because A itself is unchanged
	assert.Contains(t, s, "fillcolor=yellow")
	assert.Equal(t, 3, strings.Count(s, "fillcolor=lightgrey"))
	assert.Contains(t, s, "color=darkred")
	assert.Equal(t, 1, strings.Count(s, "penwidth=5"))
}

func TestFullNetworkDOT_SelfLoop(t *testing.T) {
	g, err := causal.Build([]causal.PathwayEdge{{Source: "A", Target: "A", Relation: causal.Activation}})
	require.NoError(t, err)
	res, err := inference.Infer(g, expression.States{"A": expression.Increase})
	require.NoError(t, err)

	out, err := FullNetworkDOT(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), "A -> A")
}

func TestGraphviz_RejectsFormatBeforeExec(t *testing.T) {
	r := NewGraphviz(filepath.Join(t.TempDir(), "missing-binary"), 72, nil)

	err := r.Render(context.Background(), []byte("digraph {}"), filepath.Join(t.TempDir(), "net.bmp"))
	require.Error(t, err)
	assert.True(t, core.IsUnsupportedFormatError(err))
}

func TestGraphviz_MissingBinary(t *testing.T) {
	r := NewGraphviz(filepath.Join(t.TempDir(), "missing-binary"), 72, nil)

	err := r.Render(context.Background(), []byte("digraph {}"), filepath.Join(t.TempDir(), "net.svg"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestGraphviz_RenderSVG(t *testing.T) {
	bin, err := exec.LookPath("dot")
	if err != nil {
		t.Skip("graphviz not installed")
	}
	_, res := scenario(t)
	src, err := FullNetworkDOT(res)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "network.svg")
	require.NoError(t, NewGraphviz(bin, 96, nil).Render(context.Background(), src, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
