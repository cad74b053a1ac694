package ui

import (
	"bytes"
	"net/http"
	"strconv"

	"gorcr/adapters/render"
	"gorcr/app"
	"gorcr/domain/core"
	"gorcr/internal/errors"

	"github.com/gin-gonic/gin"
)

type analysisHandler func(c *gin.Context, a *app.Analysis)

// withAnalysis answers 503 until a first analysis has been set
func (s *Server) withAnalysis(h analysisHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := s.current()
		if a == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no analysis loaded", "code": "NOT_READY"})
			return
		}
		h(c, a)
	}
}

// writeError maps an error onto its code and HTTP status
func (s *Server) writeError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok", "persistence": s.runRepo != nil}
	if a := s.current(); a != nil {
		resp["run_id"] = a.RunID()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGenes(c *gin.Context, a *app.Analysis) {
	g := a.Graph()
	c.JSON(http.StatusOK, gin.H{
		"genes":           a.AllGenes(),
		"edges":           g.EdgeCount(),
		"ambiguous_edges": g.AmbiguousEdgeCount(),
	})
}

func (s *Server) handleRelation(c *gin.Context, a *app.Analysis) {
	source, target := c.Param("source"), c.Param("target")
	rel, err := a.Relation(source, target)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": source, "target": target, "relation": rel})
}

func (s *Server) handleHypothesis(c *gin.Context, a *app.Analysis) {
	down, err := a.Hypothesis(c.Param("gene"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gene": c.Param("gene"), "downstream": down})
}

func (s *Server) handleInference(c *gin.Context, a *app.Analysis) {
	res := a.CausalInference()
	c.JSON(http.StatusOK, gin.H{
		"weights":  res.WeightTable(),
		"networks": res.Table(),
	})
}

func (s *Server) handleGeneInference(c *gin.Context, a *app.Analysis) {
	net, err := a.CausalInference().Network(c.Param("gene"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, net)
}

func (s *Server) handleState(c *gin.Context, a *app.Analysis) {
	state, err := a.State(c.Param("gene"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gene": c.Param("gene"), "state_change": state})
}

func (s *Server) handleScores(c *gin.Context, a *app.Analysis) {
	t := a.Scores()
	c.JSON(http.StatusOK, gin.H{"background": t.Background, "scores": t.Scores})
}

func (s *Server) handleScore(c *gin.Context, a *app.Analysis) {
	score, err := a.Score(c.Param("gene"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

func (s *Server) handleStatsTSV(c *gin.Context, a *app.Analysis) {
	var buf bytes.Buffer
	if err := app.WriteStatsTSV(&buf, a); err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", buf.Bytes())
}

func (s *Server) handleReport(c *gin.Context, a *app.Analysis) {
	md, err := app.MarkdownReport(a)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if c.Query("format") == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", md)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", app.HTMLReport(md))
}

// handleDOT returns the DOT source of a network view; rendering to an image
// is left to the client
func (s *Server) handleDOT(c *gin.Context, a *app.Analysis) {
	view, ok := render.ParseView(c.Param("view"))
	if !ok {
		s.writeError(c, errors.InvalidInput("unknown view "+strconv.Quote(c.Param("view"))))
		return
	}

	var (
		src []byte
		err error
	)
	switch view {
	case render.ViewPathway:
		src, err = render.PathwayDOT(a.Graph())
	case render.ViewHypothesis:
		gene := c.Query("gene")
		if gene == "" {
			s.writeError(c, errors.InvalidInput("hypothesis view requires a gene"))
			return
		}
		src, err = render.HypothesisDOT(a.CausalInference(), gene)
	case render.ViewFull:
		src, err = render.FullNetworkDOT(a.CausalInference())
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", src)
}

func (s *Server) handleRuns(c *gin.Context) {
	if s.runRepo == nil {
		s.writeError(c, errors.NotFound("run repository"))
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(c, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = n
	}

	var (
		runs any
		err  error
	)
	if fp := c.Query("fingerprint"); fp != "" {
		runs, err = s.runRepo.FindByFingerprint(c.Request.Context(), core.Hash(fp))
	} else {
		runs, err = s.runRepo.ListRuns(c.Request.Context(), limit)
	}
	if err != nil {
		s.writeError(c, errors.DatabaseError("failed to list runs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) runID(c *gin.Context) (core.RunID, bool) {
	if s.runRepo == nil {
		s.writeError(c, errors.NotFound("run repository"))
		return "", false
	}
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		s.writeError(c, errors.InvalidInput(err.Error()))
		return "", false
	}
	return id, true
}

func (s *Server) handleRun(c *gin.Context) {
	id, ok := s.runID(c)
	if !ok {
		return
	}
	rec, err := s.runRepo.GetRun(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleRunRegulators(c *gin.Context) {
	id, ok := s.runID(c)
	if !ok {
		return
	}
	regs, err := s.runRepo.ListRegulators(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": id, "regulators": regs})
}
