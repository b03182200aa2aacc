package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-studio/backend/internal/commands"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolParams describes the arguments of each command for MCP clients.
var toolParams = map[string][]mcp.ToolOption{
	commands.ExecuteAICommand: {
		mcp.WithString("command", mcp.Required(), mcp.Description("The AI command to execute")),
		mcp.WithObject("parameters", mcp.Description("Command parameters")),
	},
	commands.GetWorkflowStatus: {
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
	},
	commands.CreateWorkflow: {
		mcp.WithString("name", mcp.Required(), mcp.Description("The name of the workflow")),
	},
	commands.UpdateWorkflowProgress: {
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
		mcp.WithNumber("progress", mcp.Required(), mcp.Description("Completion between 0 and 1")),
		mcp.WithString("status", mcp.Required(), mcp.Description("The new status"),
			mcp.Enum("created", "running", "completed", "failed")),
	},
	commands.AddWorkflowStep: {
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The ID of the workflow")),
		mcp.WithString("step", mcp.Required(), mcp.Description("The step label to append")),
	},
}

type Server struct {
	mcpServer  *server.MCPServer
	dispatcher *commands.Dispatcher
}

func NewServer(dispatcher *commands.Dispatcher, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"AI Studio",
			version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		dispatcher: dispatcher,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	for _, cmd := range s.dispatcher.Commands() {
		opts := append([]mcp.ToolOption{mcp.WithDescription(cmd.Description)}, toolParams[cmd.Name]...)
		s.mcpServer.AddTool(mcp.NewTool(cmd.Name, opts...), s.handler(cmd.Name))
	}
}

// handler forwards a tool call to the dispatcher. Command failures become
// tool errors so the client always gets a result.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		raw, err := json.Marshal(args)
		if err != nil {
			return mcp.NewToolResultError("Invalid arguments: " + err.Error()), nil
		}

		value, err := s.dispatcher.Invoke(ctx, name, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", name, err)), nil
		}

		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return mcp.NewToolResultError("Failed to encode result: " + err.Error()), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	}
}

// MountHTTPHandlers serves the streamable HTTP transport at /mcp and the SSE
// transport at /mcp/sse with messages posted to /mcp/message.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))
	streamServer := server.NewStreamableHTTPServer(mcpServer)

	mux.Handle("/mcp", withoutWriteDeadline(streamServer))
	mux.Handle("/mcp/sse", withoutWriteDeadline(sseServer))
	mux.Handle("/mcp/message", sseServer)
}

// withoutWriteDeadline lifts the server's WriteTimeout for streams that stay
// open for the whole client session. w is passed through unwrapped so the
// transports can still flush it.
func withoutWriteDeadline(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			http.Error(w, "Failed to open stream", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}
