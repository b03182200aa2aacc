package models

// WorkflowStatus is the lifecycle tag of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusCreated   WorkflowStatus = "created"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusFailed    WorkflowStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowStatusCreated, WorkflowStatusRunning, WorkflowStatusCompleted, WorkflowStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further updates are accepted in status s.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowStatusCompleted || s == WorkflowStatusFailed
}

// CanTransition reports whether a workflow in status s may move to next.
func (s WorkflowStatus) CanTransition(next WorkflowStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if s == WorkflowStatusRunning && next == WorkflowStatusCreated {
		return false
	}
	return true
}

// Workflow is a tracked unit of work.
type Workflow struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Status   WorkflowStatus `json:"status"`
	Progress float64        `json:"progress"` // 0.0 to 1.0
	Steps    []string       `json:"steps"`
}
