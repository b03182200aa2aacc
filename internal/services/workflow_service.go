package services

import (
	"context"
	"strings"

	"ai-studio/backend/internal/logging"
	"ai-studio/backend/internal/repository"
	"ai-studio/backend/pkg/models"
)

// WorkflowService is a service for managing workflows.
type WorkflowService struct {
	store  repository.WorkflowStore
	logger *logging.Logger
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(store repository.WorkflowStore, logger *logging.Logger) *WorkflowService {
	return &WorkflowService{
		store:  store,
		logger: logger,
	}
}

// Create registers a new workflow under the name exactly as given. It never
// fails; the error return leaves room for stores that can.
func (s *WorkflowService) Create(ctx context.Context, name string) (models.Workflow, error) {
	workflow := s.store.Create(ctx, name)
	s.logger.Info("workflow created", "id", workflow.ID, "name", workflow.Name)
	return workflow, nil
}

// Get returns the workflow or nil when it does not exist.
func (s *WorkflowService) Get(ctx context.Context, id string) *models.Workflow {
	workflow, ok := s.store.Get(ctx, id)
	if !ok {
		return nil
	}
	return &workflow
}

// List returns all workflows.
func (s *WorkflowService) List(ctx context.Context) []models.Workflow {
	return s.store.List(ctx)
}

// UpdateProgress records progress and a status change.
func (s *WorkflowService) UpdateProgress(ctx context.Context, id string, progress float64, status models.WorkflowStatus) (models.Workflow, error) {
	workflow, err := s.store.UpdateProgress(ctx, id, progress, status)
	if err != nil {
		return models.Workflow{}, err
	}
	s.logger.Debug("workflow progress updated", "id", id, "status", workflow.Status, "progress", workflow.Progress)
	return workflow, nil
}

// AppendStep adds a step label to the workflow.
func (s *WorkflowService) AppendStep(ctx context.Context, id string, step string) (models.Workflow, error) {
	workflow, err := s.store.AppendStep(ctx, id, strings.TrimSpace(step))
	if err != nil {
		return models.Workflow{}, err
	}
	s.logger.Debug("workflow step added", "id", id, "step", step, "steps", len(workflow.Steps))
	return workflow, nil
}
