package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxInvokeBody bounds the size of command arguments.
const maxInvokeBody = 1 << 20

// InvokeResult is the success envelope of an invocation.
type InvokeResult struct {
	Value any `json:"value"`
}

// ListCommands returns the command catalogue
// (GET /api/v1/commands)
func (s *Server) ListCommands(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Dispatcher.Commands())
}

// InvokeCommand runs a command with the request body as its arguments
// (POST /api/v1/invoke/:command)
func (s *Server) InvokeCommand(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxInvokeBody+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body: "+err.Error())
	}
	if len(body) > maxInvokeBody {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body too large")
	}

	value, err := s.Dispatcher.Invoke(c.Request().Context(), c.Param("command"), json.RawMessage(body))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, InvokeResult{Value: value})
}
