package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// RegisterRenderRoutes registers render submission routes.
func (s *Server) RegisterRenderRoutes(r *gin.Engine) {
	r.POST("/api/render", s.handlePostRender)
}

// handlePostRender accepts a RenderRequest, queues it and returns
// immediately; progress is tracked in Redis and served by the jobs routes.
func (s *Server) handlePostRender(c *gin.Context) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()
	if s.tracker != nil {
		if err := s.tracker.MarkQueued(ctx, req.ThreadID, req.Subreddit); err != nil {
			log.Printf("⚠️ could not queue %s: %v", req.ThreadID, err)
		}
	}

	go func() {
		if s.tracker != nil {
			s.tracker.MarkRendering(ctx, req.ThreadID)
		}
		var onProgress func(float64)
		if s.tracker != nil {
			onProgress = func(f float64) { s.tracker.Progress(ctx, req.ThreadID, f) }
		}
		result, err := s.processor.Process(req, onProgress)
		if err != nil {
			log.Printf("❌ render %s failed: %v", req.ThreadID, err)
			if s.tracker != nil {
				s.tracker.MarkFailed(ctx, req.ThreadID, err)
			}
			return
		}
		if s.tracker != nil {
			s.tracker.MarkDone(ctx, req.ThreadID, result.VideoPath)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "queued",
		"thread_id": req.ThreadID,
	})
}
