package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorcr/app"
	"gorcr/domain/expression"
	"gorcr/internal/metrics"
	"gorcr/internal/testkit"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *Server
	analysis *app.Analysis
	metrics  *metrics.Registry
	repo     *testkit.InMemoryRunRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := metrics.NewRegistry()
	repo := testkit.NewInMemoryRunRepository()
	svc, err := app.NewAnalysisService(app.ServiceOptions{
		Thresholds: expression.DefaultThresholds(),
		RunRepo:    repo,
		Metrics:    reg,
	})
	require.NoError(t, err)
	a, err := svc.Run(context.Background(), app.Inputs{
		Records: testkit.ScenarioRecords(),
		Edges:   testkit.ScenarioEdges(),
	})
	require.NoError(t, err)

	s := NewServer(ServerOptions{GinMode: "test", RunRepo: repo, Metrics: reg})
	s.SetAnalysis(a)
	return &fixture{server: s, analysis: a, metrics: reg, repo: repo}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestServer_NotReady(t *testing.T) {
	s := NewServer(ServerOptions{GinMode: "test", Metrics: metrics.NewRegistry()})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/genes", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Genes(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/genes")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"A", "B", "C"}, body["genes"])
	assert.Equal(t, 2.0, body["edges"])
}

func TestServer_Relation(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/relations/A/C")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inhibition", decode(t, w)["relation"])

	w = f.get(t, "/api/relations/C/A")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])
}

func TestServer_Inference(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/inference/A")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 2.0, body["total_weight"])
	preds := body["predictions"].([]any)
	require.Len(t, preds, 2)
	assert.Equal(t, "correct", preds[0].(map[string]any)["classification"])
	assert.Equal(t, "contrast", preds[1].(map[string]any)["classification"])

	w = f.get(t, "/api/inference")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"A": 2.0, "B": 0.0, "C": 0.0}, decode(t, w)["weights"])
}

func TestServer_Scores(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/scores/A")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.InDelta(t, 0.75, body["concordance"], 1e-12)
	assert.InDelta(t, 1.0/3, body["richness"], 1e-12)

	w = f.get(t, "/api/scores/B")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Nil(t, body["concordance"])
	assert.Nil(t, body["richness"])

	w = f.get(t, "/api/scores/SMAD3")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Reports(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/stats.tsv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "gene\ttotal_weight"))

	w = f.get(t, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<html")

	w = f.get(t, "/api/report?format=md")
	assert.Contains(t, w.Body.String(), "# Reverse causal reasoning report")
}

func TestServer_DOT(t *testing.T) {
	f := newFixture(t)

	w := f.get(t, "/api/dot/hypothesis?gene=A")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "digraph A")

	w = f.get(t, "/api/dot/hypothesis")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.get(t, "/api/dot/radial")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
}

func TestServer_Runs(t *testing.T) {
	f := newFixture(t)
	id := f.analysis.RunID().String()

	w := f.get(t, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["runs"], 1)

	w = f.get(t, "/api/runs?fingerprint="+f.analysis.Fingerprint().String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["runs"], 1)

	w = f.get(t, "/api/runs/"+id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["genes"])

	w = f.get(t, "/api/runs/"+id+"/regulators")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["regulators"], 3)

	w = f.get(t, "/api/runs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.get(t, "/api/runs/0190a5f2-7c3e-7000-8000-000000000000")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.get(t, "/api/runs?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_MetricsMiddleware(t *testing.T) {
	f := newFixture(t)

	f.get(t, "/api/scores/A")
	f.get(t, "/api/scores/B")
	f.get(t, "/api/scores/SMAD3")

	ok := f.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/scores/:gene", "200")
	missing := f.metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/scores/:gene", "404")
	assert.Equal(t, 2.0, testutil.ToFloat64(ok))
	assert.Equal(t, 1.0, testutil.ToFloat64(missing))

	w := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analyses_total")
}
