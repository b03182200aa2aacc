package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-studio/backend/internal/commands"
	"ai-studio/backend/internal/logging"
	"ai-studio/backend/internal/repository"
	"ai-studio/backend/internal/services"
	"ai-studio/backend/pkg/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*echo.Echo, *commands.Dispatcher) {
	t.Helper()
	logger := logging.Nop()
	workflows := services.NewWorkflowService(repository.NewMemoryWorkflowStore(), logger)
	dispatcher := commands.NewDispatcher(logger)
	commands.RegisterBuiltins(dispatcher, commands.Services{
		Workflows: workflows,
		Commands:  services.NewCommandService(services.NewHTTPBridgeClient("http://127.0.0.1:1", time.Second), false, logger),
		System:    services.NewSystemService("0.1.0-alpha"),
	})
	return NewRouter(NewServer(dispatcher, workflows, "0.1.0-alpha"), logger), dispatcher
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	health := decode[HealthStatus](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "0.1.0-alpha", health.Version)
}

func TestInvoke_CreateAndGetWorkflow(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/invoke/create_workflow", `{"name":"Demo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := decode[struct {
		Value models.Workflow `json:"value"`
	}](t, rec).Value
	assert.Equal(t, "Demo", created.Name)
	assert.Equal(t, models.WorkflowStatusCreated, created.Status)
	assert.Equal(t, []string{}, created.Steps)

	rec = do(t, e, http.MethodPost, "/api/v1/invoke/get_workflow_status", `{"workflow_id":"`+created.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Value models.Workflow `json:"value"`
	}](t, rec).Value
	assert.Equal(t, created, got)

	rec = do(t, e, http.MethodPost, "/api/v1/invoke/get_workflow_status", `{"workflow_id":"missing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":null}`, rec.Body.String())
}

func TestInvoke_NoBody(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/invoke/get_system_info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	info := decode[struct {
		Value map[string]string `json:"value"`
	}](t, rec).Value
	assert.Equal(t, "0.1.0-alpha", info["version"])
	assert.Contains(t, info, "platform")
	assert.Contains(t, info, "arch")

	rec = do(t, e, http.MethodPost, "/api/v1/invoke/check_ai_bridge_connection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":false}`, rec.Body.String())
}

func TestInvoke_Errors(t *testing.T) {
	e, _ := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"unknown command", "/api/v1/invoke/self_destruct", "", http.StatusNotFound},
		{"malformed body", "/api/v1/invoke/create_workflow", `{"name":`, http.StatusBadRequest},
		{"missing workflow id", "/api/v1/invoke/get_workflow_status", `{}`, http.StatusBadRequest},
		{"unknown workflow update", "/api/v1/invoke/update_workflow_progress", `{"workflow_id":"x","progress":0.1,"status":"running"}`, http.StatusNotFound},
		{"bridge unavailable", "/api/v1/invoke/get_ai_bridge_status", "", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get(echo.HeaderContentType))

			problem := decode[ProblemDetails](t, rec)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.NotEmpty(t, problem.Error)
		})
	}
}

func TestInvoke_PanicIsReportedAsError(t *testing.T) {
	e, dispatcher := newTestRouter(t)
	dispatcher.Register(commands.Command{
		Name: "explode",
		Handler: func(context.Context, json.RawMessage) (any, error) {
			panic("boom")
		},
	})

	rec := do(t, e, http.MethodPost, "/api/v1/invoke/explode", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[ProblemDetails](t, rec).Error, "internal error")

	rec = do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListCommands(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/api/v1/commands", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]commands.Command](t, rec)
	require.Len(t, list, 9)
	assert.Equal(t, commands.AddWorkflowStep, list[0].Name)
}

func TestWorkflowsREST(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/api/v1/workflows", `{"name":"Render"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	wf := decode[models.Workflow](t, rec)

	rec = do(t, e, http.MethodGet, "/api/v1/workflows/"+wf.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wf, decode[models.Workflow](t, rec))

	rec = do(t, e, http.MethodGet, "/api/v1/workflows/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/workflows/"+wf.ID+"/steps", `{"step":"sample"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sample"}, decode[models.Workflow](t, rec).Steps)

	rec = do(t, e, http.MethodPatch, "/api/v1/workflows/"+wf.ID, `{"progress":0.5,"status":"running"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.5, decode[models.Workflow](t, rec).Progress)

	rec = do(t, e, http.MethodPatch, "/api/v1/workflows/"+wf.ID, `{"progress":7,"status":"running"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPatch, "/api/v1/workflows/"+wf.ID, `{"status":"running"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPatch, "/api/v1/workflows/"+wf.ID, `{"progress":1,"status":"failed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPatch, "/api/v1/workflows/"+wf.ID, `{"progress":1,"status":"running"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/workflows", `{"name":"  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "  ", decode[models.Workflow](t, rec).Name)

	rec = do(t, e, http.MethodGet, "/api/v1/workflows", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Workflow](t, rec), 2)
}
