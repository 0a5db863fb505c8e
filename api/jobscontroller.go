package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers job status routes.
func (s *Server) RegisterJobRoutes(r *gin.Engine) {
	r.GET("/api/jobs/:id", s.handleGetJob)
}

func (s *Server) handleGetJob(c *gin.Context) {
	if s.tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job tracking is not configured"})
		return
	}

	status, err := s.tracker.Status(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(status) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}
	c.JSON(http.StatusOK, status)
}
