package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.AnalysesTotal)
	assert.NotNil(t, r.StageDuration)
	assert.NotNil(t, r.registry)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRegistry()
	r.RecordAnalysis("success")
	r.RecordAnalysis("success")
	r.RecordAnalysis("error")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues("error")))
}

func TestGauges(t *testing.T) {
	r := NewRegistry()
	r.SetGraphSize(12, 30, 2)
	r.SetScoredRegulators(5)

	assert.Equal(t, 12.0, testutil.ToFloat64(r.GraphNodes))
	assert.Equal(t, 30.0, testutil.ToFloat64(r.GraphEdges))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.AmbiguousEdges))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.ScoredRegulators))
}

func TestObserveStage(t *testing.T) {
	r := NewRegistry()
	r.ObserveStage("infer", 3*time.Millisecond)
	r.ObserveStage("score", 10*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(r.StageDuration, "rcr_stage_duration_seconds"))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordAnalysis("success")
	r.RecordHTTPRequest("GET", "/api/genes", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rcr_analyses_total{status="success"} 1`))
	assert.Contains(t, body, "rcr_http_requests_total")
}
