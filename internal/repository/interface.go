package repository

import (
	"context"
	"errors"

	"ai-studio/backend/pkg/models"
)

var (
	// ErrWorkflowNotFound is returned by mutations on an unknown workflow id.
	ErrWorkflowNotFound = errors.New("workflow not found")
	// ErrInvalidProgress is returned when progress is outside [0, 1].
	ErrInvalidProgress = errors.New("progress must be between 0 and 1")
	// ErrInvalidStatus is returned for an unknown workflow status.
	ErrInvalidStatus = errors.New("invalid workflow status")
	// ErrInvalidTransition is returned when the workflow cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid workflow status transition")
	// ErrEmptyStep is returned when appending a blank step label.
	ErrEmptyStep = errors.New("step label must not be empty")
)

// WorkflowStore holds the set of known workflows keyed by id.
// Implementations must be safe for concurrent use and must never hand out
// values that alias their internal state.
type WorkflowStore interface {
	// Create registers a new workflow and returns a copy of it.
	Create(ctx context.Context, name string) models.Workflow
	// Get returns a copy of the workflow, or false when the id is unknown.
	Get(ctx context.Context, id string) (models.Workflow, bool)
	// UpdateProgress atomically sets progress and status.
	UpdateProgress(ctx context.Context, id string, progress float64, status models.WorkflowStatus) (models.Workflow, error)
	// AppendStep adds a step label to the end of the workflow's steps.
	AppendStep(ctx context.Context, id string, step string) (models.Workflow, error)
	// List returns all workflows in creation order.
	List(ctx context.Context) []models.Workflow
	// Len returns the number of workflows.
	Len() int
}
