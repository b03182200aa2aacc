// Package api contains the HTTP handlers for the AI studio backend
package api

import (
	"errors"
	"net/http"
	"time"

	"ai-studio/backend/internal/commands"
	"ai-studio/backend/internal/repository"
	"ai-studio/backend/internal/services"

	"github.com/labstack/echo/v4"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
// (GET /health)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "ai-studio",
		Version:   s.version,
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response.
// Error carries the same message as Detail for clients that only look for
// a plain error string.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
	Error    string `json:"error"`
}

// writeError writes an RFC 7807 Problem Details JSON error response
func writeError(c echo.Context, status int, detail string) error {
	problem := ProblemDetails{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Error:    detail,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(status, problem)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrUnknownCommand), errors.Is(err, repository.ErrWorkflowNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrBridgeUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as Problem Details,
// including echo's own HTTP errors (404 routes, 405, bind failures).
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		detail := http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
		_ = writeError(c, he.Code, detail)
		return
	}

	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, commands.ErrInternal) {
		detail = "internal server error"
	}
	_ = writeError(c, status, detail)
}
