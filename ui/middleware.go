package ui

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestMetrics())
}

// requestMetrics records count and latency per route template, so path
// parameters do not blow up label cardinality
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), elapsed)
		s.logger.Debug("[HTTP] %s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
	}
}
