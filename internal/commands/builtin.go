package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-studio/backend/internal/repository"
	"ai-studio/backend/internal/services"
	"ai-studio/backend/pkg/models"
)

// Command names understood by the front-end.
const (
	ExecuteAICommand        = "execute_ai_command"
	GetWorkflowStatus       = "get_workflow_status"
	CreateWorkflow          = "create_workflow"
	CheckAIBridgeConnection = "check_ai_bridge_connection"
	GetSystemInfo           = "get_system_info"
	GetAIBridgeStatus       = "get_ai_bridge_status"
	ListWorkflows           = "list_workflows"
	UpdateWorkflowProgress  = "update_workflow_progress"
	AddWorkflowStep         = "add_workflow_step"
)

// Services are the backends the built-in commands call into.
type Services struct {
	Workflows *services.WorkflowService
	Commands  *services.CommandService
	System    *services.SystemService
}

type executeArgs struct {
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters"`
}

type workflowIDArgs struct {
	WorkflowID string `json:"workflow_id"`
}

type createWorkflowArgs struct {
	Name string `json:"name"`
}

type updateProgressArgs struct {
	WorkflowID string                `json:"workflow_id"`
	Progress   *float64              `json:"progress"`
	Status     models.WorkflowStatus `json:"status"`
}

type addStepArgs struct {
	WorkflowID string `json:"workflow_id"`
	Step       string `json:"step"`
}

// RegisterBuiltins registers every front-end command on d.
func RegisterBuiltins(d *Dispatcher, svc Services) {
	d.Register(Command{
		Name:        ExecuteAICommand,
		Description: "Execute an AI command, dispatching it to the AI bridge when enabled",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args executeArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			resp, err := svc.Commands.Execute(ctx, args.Command, args.Parameters)
			if err != nil {
				return nil, Invalid(err)
			}
			return resp, nil
		},
	})

	d.Register(Command{
		Name:        GetWorkflowStatus,
		Description: "Look up a workflow by id; returns null when it does not exist",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			id, err := workflowID(raw)
			if err != nil {
				return nil, err
			}
			return svc.Workflows.Get(ctx, id), nil
		},
	})

	d.Register(Command{
		Name:        CreateWorkflow,
		Description: "Create a workflow with the given name",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args createWorkflowArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			workflow, err := svc.Workflows.Create(ctx, args.Name)
			if err != nil {
				return nil, Invalid(err)
			}
			return workflow, nil
		},
	})

	d.Register(Command{
		Name:        CheckAIBridgeConnection,
		Description: "Report whether the AI bridge is reachable and running",
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return svc.Commands.CheckConnection(ctx), nil
		},
	})

	d.Register(Command{
		Name:        GetSystemInfo,
		Description: "Report platform, architecture and version",
		Handler: func(_ context.Context, _ json.RawMessage) (any, error) {
			return svc.System.Info(), nil
		},
	})

	d.Register(Command{
		Name:        GetAIBridgeStatus,
		Description: "Fetch the AI bridge's status report",
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			status, err := svc.Commands.BridgeStatus(ctx)
			if err != nil {
				return nil, err
			}
			return status, nil
		},
	})

	d.Register(Command{
		Name:        ListWorkflows,
		Description: "List all workflows in creation order",
		Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return svc.Workflows.List(ctx), nil
		},
	})

	d.Register(Command{
		Name:        UpdateWorkflowProgress,
		Description: "Set a workflow's progress (0 to 1) and status",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args updateProgressArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if strings.TrimSpace(args.WorkflowID) == "" {
				return nil, fmt.Errorf("%w: workflow_id is required", ErrInvalidArguments)
			}
			if args.Progress == nil {
				return nil, fmt.Errorf("%w: progress is required", ErrInvalidArguments)
			}
			workflow, err := svc.Workflows.UpdateProgress(ctx, args.WorkflowID, *args.Progress, args.Status)
			if err != nil {
				return nil, Invalid(err)
			}
			return workflow, nil
		},
	})

	d.Register(Command{
		Name:        AddWorkflowStep,
		Description: "Append a step label to a workflow",
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args addStepArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if strings.TrimSpace(args.WorkflowID) == "" {
				return nil, fmt.Errorf("%w: workflow_id is required", ErrInvalidArguments)
			}
			workflow, err := svc.Workflows.AppendStep(ctx, args.WorkflowID, args.Step)
			if err != nil {
				return nil, Invalid(err)
			}
			return workflow, nil
		},
	})
}

func workflowID(raw json.RawMessage) (string, error) {
	var args workflowIDArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.WorkflowID) == "" {
		return "", fmt.Errorf("%w: workflow_id is required", ErrInvalidArguments)
	}
	return args.WorkflowID, nil
}

// Invalid tags validation failures from the service layer as ErrInvalidArguments.
// Lookup and state errors are returned unchanged.
func Invalid(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidProgress),
		errors.Is(err, repository.ErrInvalidStatus),
		errors.Is(err, repository.ErrEmptyStep):
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return err
}
