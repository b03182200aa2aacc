package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-studio/backend/internal/logging"
	"ai-studio/backend/pkg/models"

	"github.com/google/uuid"
)

// ErrBridgeUnavailable is returned when the AI bridge cannot be reached.
var ErrBridgeUnavailable = errors.New("AI bridge unavailable")

// placeholderResult is returned for commands while bridge dispatch is disabled.
// Each call gets its own map.
func placeholderResult() map[string]any {
	return map[string]any{"message": "Command executed successfully"}
}

// CommandService executes AI commands and reports on the bridge.
type CommandService struct {
	bridge   BridgeClient
	dispatch bool
	logger   *logging.Logger
	now      func() time.Time
}

// NewCommandService creates a new CommandService. When dispatch is false,
// commands are acknowledged locally and never sent to the bridge.
func NewCommandService(bridge BridgeClient, dispatch bool, logger *logging.Logger) *CommandService {
	return &CommandService{
		bridge:   bridge,
		dispatch: dispatch,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute runs an AI command. Bridge failures are reported in the response,
// not as an error.
func (s *CommandService) Execute(ctx context.Context, command string, parameters map[string]any) (*models.AIResponse, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}

	cmd := models.AICommand{
		ID:         uuid.NewString(),
		Command:    command,
		Parameters: parameters,
		Timestamp:  s.now().Unix(),
	}
	s.logger.Info("executing AI command", "id", cmd.ID, "command", cmd.Command, "dispatch", s.dispatch)

	if !s.dispatch {
		return &models.AIResponse{
			ID:        cmd.ID,
			Success:   true,
			Result:    placeholderResult(),
			Timestamp: cmd.Timestamp,
		}, nil
	}

	result, err := s.bridge.Execute(ctx, cmd)
	if err != nil {
		s.logger.Warn("AI command failed", "id", cmd.ID, "command", cmd.Command, "error", err)
		msg := err.Error()
		return &models.AIResponse{
			ID:        cmd.ID,
			Success:   false,
			Error:     &msg,
			Timestamp: s.now().Unix(),
		}, nil
	}
	s.logger.Debug("AI command accepted", "id", cmd.ID, "task_id", result["task_id"])
	return &models.AIResponse{
		ID:        cmd.ID,
		Success:   true,
		Result:    result,
		Timestamp: s.now().Unix(),
	}, nil
}

// CheckConnection reports whether the bridge answers its status probe and
// says it is running.
func (s *CommandService) CheckConnection(ctx context.Context) bool {
	status, err := s.bridge.Status(ctx)
	if err != nil {
		s.logger.Debug("AI bridge unreachable", "error", err)
		return false
	}
	return status.BridgeStatus == models.BridgeRunning
}

// BridgeStatus returns the bridge's self-reported status.
func (s *CommandService) BridgeStatus(ctx context.Context) (*models.BridgeStatus, error) {
	status, err := s.bridge.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBridgeUnavailable, err)
	}
	return status, nil
}
