package api

import (
	"net/http"

	"ai-studio/backend/internal/commands"
	"ai-studio/backend/pkg/models"

	"github.com/labstack/echo/v4"
)

// CreateWorkflowRequest is the body of POST /api/v1/workflows.
type CreateWorkflowRequest struct {
	Name string `json:"name"`
}

// UpdateWorkflowRequest is the body of PATCH /api/v1/workflows/:id.
type UpdateWorkflowRequest struct {
	Progress *float64              `json:"progress"`
	Status   models.WorkflowStatus `json:"status"`
}

// AddStepRequest is the body of POST /api/v1/workflows/:id/steps.
type AddStepRequest struct {
	Step string `json:"step"`
}

// ListWorkflows returns a list of all workflows
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Workflows.List(c.Request().Context()))
}

// GetWorkflow returns a single workflow
// (GET /api/v1/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	workflow := s.Workflows.Get(c.Request().Context(), c.Param("id"))
	if workflow == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Workflow not found")
	}
	return c.JSON(http.StatusOK, workflow)
}

// CreateWorkflow creates a workflow
// (POST /api/v1/workflows)
func (s *Server) CreateWorkflow(c echo.Context) error {
	var req CreateWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	workflow, err := s.Workflows.Create(c.Request().Context(), req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, workflow)
}

// UpdateWorkflow records progress and a status change
// (PATCH /api/v1/workflows/:id)
func (s *Server) UpdateWorkflow(c echo.Context) error {
	var req UpdateWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Progress == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "progress is required")
	}

	workflow, err := s.Workflows.UpdateProgress(c.Request().Context(), c.Param("id"), *req.Progress, req.Status)
	if err != nil {
		return invalidOr(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// AddWorkflowStep appends a step label
// (POST /api/v1/workflows/:id/steps)
func (s *Server) AddWorkflowStep(c echo.Context) error {
	var req AddStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	workflow, err := s.Workflows.AppendStep(c.Request().Context(), c.Param("id"), req.Step)
	if err != nil {
		return invalidOr(err)
	}
	return c.JSON(http.StatusOK, workflow)
}

// invalidOr turns validation errors into 400s and passes lookup and state
// errors through to the error handler.
func invalidOr(err error) error {
	if statusFor(commands.Invalid(err)) == http.StatusBadRequest {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}
