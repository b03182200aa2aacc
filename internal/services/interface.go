package services

import (
	"context"

	"ai-studio/backend/pkg/models"
)

// BridgeClient is an interface for communicating with the AI bridge.
type BridgeClient interface {
	// Status returns the bridge's self-reported status.
	Status(ctx context.Context) (*models.BridgeStatus, error)
	// Execute submits a command to the bridge and returns the bridge's reply
	// payload, typically carrying a task_id.
	Execute(ctx context.Context, cmd models.AICommand) (map[string]any, error)
}
