package api

import (
	"ai-studio/backend/internal/commands"
	"ai-studio/backend/internal/services"

	"github.com/labstack/echo/v4"
)

// Server holds the dependencies for the API server.
type Server struct {
	Dispatcher *commands.Dispatcher
	Workflows  *services.WorkflowService
	version    string
}

// NewServer creates a new Server.
func NewServer(dispatcher *commands.Dispatcher, workflows *services.WorkflowService, version string) *Server {
	return &Server{
		Dispatcher: dispatcher,
		Workflows:  workflows,
		version:    version,
	}
}

// RegisterHandlers mounts the API routes on g (normally the /api/v1 group).
func RegisterHandlers(g *echo.Group, s *Server) {
	g.GET("/commands", s.ListCommands)
	g.POST("/invoke/:command", s.InvokeCommand)

	g.GET("/workflows", s.ListWorkflows)
	g.POST("/workflows", s.CreateWorkflow)
	g.GET("/workflows/:id", s.GetWorkflow)
	g.PATCH("/workflows/:id", s.UpdateWorkflow)
	g.POST("/workflows/:id/steps", s.AddWorkflowStep)
}
