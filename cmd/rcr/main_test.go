package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestFakeThenAnalyze(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, execute(t, "fake", "--edges", "12", "--seed", "3", "--out", dir))
	assert.FileExists(t, filepath.Join(dir, "pathway.txt"))
	assert.FileExists(t, filepath.Join(dir, "top.table.tsv"))

	out := filepath.Join(dir, "results")
	require.NoError(t, execute(t, "analyze",
		"--expression", filepath.Join(dir, "top.table.tsv"),
		"--pathway", filepath.Join(dir, "pathway.txt"),
		"--out", out,
	))
	for _, name := range []string{"stats.tsv", "report.md", "report.html"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestFake_TooManyEdges(t *testing.T) {
	// 7 genes give 21 pairs
	err := execute(t, "fake", "--edges", "22", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestPlot_RejectsExtension(t *testing.T) {
	err := execute(t, "plot", "--view", "full", "network.gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestMigrate_DryRun(t *testing.T) {
	assert.NoError(t, execute(t, "migrate", "--dry-run"))
}
