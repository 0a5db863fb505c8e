// Package api exposes the render pipeline over HTTP: submit a job, poll
// its status, health check.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mvenus2/RedditVideoMakerBot/jobs"
	"github.com/mvenus2/RedditVideoMakerBot/types"
)

// RequestProcessor runs one render end to end; satisfied by
// render.Processor.
type RequestProcessor interface {
	Process(req types.RenderRequest, onProgress func(float64)) (*types.RenderResult, error)
}

// Server holds the handlers' collaborators.
type Server struct {
	processor RequestProcessor
	tracker   *jobs.Tracker
}

func NewServer(processor RequestProcessor, tracker *jobs.Tracker) *Server {
	return &Server{processor: processor, tracker: tracker}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.RegisterRenderRoutes(r)
	s.RegisterJobRoutes(r)
	RegisterHealthRoutes(r)
	return r
}
