package repository

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"ai-studio/backend/pkg/models"

	"github.com/google/uuid"
)

// MemoryWorkflowStore is an in-memory implementation of the WorkflowStore interface.
// Its lifetime is the lifetime of the process; nothing is persisted.
type MemoryWorkflowStore struct {
	mu        sync.Mutex
	workflows map[string]*models.Workflow
	order     []string
	newID     func() string
}

// NewMemoryWorkflowStore creates a new MemoryWorkflowStore.
func NewMemoryWorkflowStore() *MemoryWorkflowStore {
	return &MemoryWorkflowStore{
		workflows: make(map[string]*models.Workflow),
		newID:     uuid.NewString,
	}
}

// Create registers a new workflow in status created with no progress.
func (s *MemoryWorkflowStore) Create(_ context.Context, name string) models.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.workflows[id] != nil {
		id = s.newID()
	}

	workflow := &models.Workflow{
		ID:       id,
		Name:     name,
		Status:   models.WorkflowStatusCreated,
		Progress: 0,
		Steps:    []string{},
	}
	s.workflows[id] = workflow
	s.order = append(s.order, id)

	return clone(workflow)
}

// Get retrieves a workflow by its ID.
func (s *MemoryWorkflowStore) Get(_ context.Context, id string) (models.Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.workflows[id]
	if !ok {
		return models.Workflow{}, false
	}
	return clone(workflow), true
}

// UpdateProgress sets progress and status in one step. A completed workflow
// always reports full progress.
func (s *MemoryWorkflowStore) UpdateProgress(_ context.Context, id string, progress float64, status models.WorkflowStatus) (models.Workflow, error) {
	if math.IsNaN(progress) || progress < 0 || progress > 1 {
		return models.Workflow{}, fmt.Errorf("%w: got %v", ErrInvalidProgress, progress)
	}
	if !status.Valid() {
		return models.Workflow{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if status == models.WorkflowStatusCompleted {
		progress = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.workflows[id]
	if !ok {
		return models.Workflow{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	if !workflow.Status.CanTransition(status) {
		return models.Workflow{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, workflow.Status, status)
	}

	workflow.Progress = progress
	workflow.Status = status
	return clone(workflow), nil
}

// AppendStep adds a step label to a workflow that has not finished.
func (s *MemoryWorkflowStore) AppendStep(_ context.Context, id string, step string) (models.Workflow, error) {
	if strings.TrimSpace(step) == "" {
		return models.Workflow{}, ErrEmptyStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	workflow, ok := s.workflows[id]
	if !ok {
		return models.Workflow{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	if workflow.Status.Terminal() {
		return models.Workflow{}, fmt.Errorf("%w: workflow is %s", ErrInvalidTransition, workflow.Status)
	}

	workflow.Steps = append(workflow.Steps, step)
	return clone(workflow), nil
}

// List returns every workflow in creation order.
func (s *MemoryWorkflowStore) List(_ context.Context) []models.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()

	workflows := make([]models.Workflow, 0, len(s.order))
	for _, id := range s.order {
		workflows = append(workflows, clone(s.workflows[id]))
	}
	return workflows
}

// Len returns the number of stored workflows.
func (s *MemoryWorkflowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workflows)
}

func clone(w *models.Workflow) models.Workflow {
	c := *w
	c.Steps = slices.Clone(w.Steps)
	if c.Steps == nil {
		c.Steps = []string{}
	}
	return c
}
