package ui

import (
	"net/http"
	"sync"

	"gorcr/app"
	"gorcr/internal"
	"gorcr/internal/metrics"
	"gorcr/ports"

	"github.com/gin-gonic/gin"
)

// Server serves the latest analysis, its reports and stored runs over HTTP
type Server struct {
	router  *gin.Engine
	runRepo ports.RunRepository
	metrics *metrics.Registry
	logger  *internal.Logger

	mu       sync.RWMutex
	analysis *app.Analysis
}

// ServerOptions configures a Server. RunRepo is optional; run routes answer 404
// without it.
type ServerOptions struct {
	GinMode string
	RunRepo ports.RunRepository
	Metrics *metrics.Registry
	Logger  *internal.Logger
}

// NewServer creates the server and registers its routes
func NewServer(opts ServerOptions) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewNopLogger()
	}

	s := &Server{
		router:  gin.New(),
		runRepo: opts.RunRepo,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// SetAnalysis replaces the analysis served by the query routes
func (s *Server) SetAnalysis(a *app.Analysis) {
	s.mu.Lock()
	s.analysis = a
	s.mu.Unlock()
	s.logger.Info("[Server] serving run %s", a.RunID())
}

func (s *Server) current() *app.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/genes", s.withAnalysis(s.handleGenes))
		api.GET("/relations/:source/:target", s.withAnalysis(s.handleRelation))
		api.GET("/hypotheses/:gene", s.withAnalysis(s.handleHypothesis))
		api.GET("/inference", s.withAnalysis(s.handleInference))
		api.GET("/inference/:gene", s.withAnalysis(s.handleGeneInference))
		api.GET("/states/:gene", s.withAnalysis(s.handleState))
		api.GET("/scores", s.withAnalysis(s.handleScores))
		api.GET("/scores/:gene", s.withAnalysis(s.handleScore))
		api.GET("/stats.tsv", s.withAnalysis(s.handleStatsTSV))
		api.GET("/report", s.withAnalysis(s.handleReport))
		api.GET("/dot/:view", s.withAnalysis(s.handleDOT))

		api.GET("/runs", s.handleRuns)
		api.GET("/runs/:id", s.handleRun)
		api.GET("/runs/:id/regulators", s.handleRunRegulators)
	}
}

// Handler exposes the router, for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("[Server] listening on %s", addr)
	return s.router.Run(addr)
}
