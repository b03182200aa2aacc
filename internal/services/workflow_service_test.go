package services

import (
	"context"
	"testing"

	"ai-studio/backend/internal/logging"
	"ai-studio/backend/internal/repository"
	"ai-studio/backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowService(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkflowService(repository.NewMemoryWorkflowStore(), logging.Nop())

	t.Run("Create stores the name as given", func(t *testing.T) {
		wf, err := svc.Create(ctx, "  Demo ")
		require.NoError(t, err)
		assert.Equal(t, "  Demo ", wf.Name)

		wf, err = svc.Create(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "", wf.Name)
		assert.NotEmpty(t, wf.ID)
	})

	t.Run("Get returns nil for unknown ids", func(t *testing.T) {
		assert.Nil(t, svc.Get(ctx, "unknown"))
	})

	t.Run("Get returns the created workflow", func(t *testing.T) {
		wf, err := svc.Create(ctx, "Lookup")
		require.NoError(t, err)

		got := svc.Get(ctx, wf.ID)
		require.NotNil(t, got)
		assert.Equal(t, wf, *got)
	})

	t.Run("progress and steps", func(t *testing.T) {
		wf, err := svc.Create(ctx, "Render")
		require.NoError(t, err)

		_, err = svc.AppendStep(ctx, wf.ID, " load ")
		require.NoError(t, err)
		updated, err := svc.UpdateProgress(ctx, wf.ID, 0.5, models.WorkflowStatusRunning)
		require.NoError(t, err)

		assert.Equal(t, []string{"load"}, updated.Steps)
		assert.Equal(t, 0.5, updated.Progress)

		_, err = svc.UpdateProgress(ctx, wf.ID, 2, models.WorkflowStatusRunning)
		assert.ErrorIs(t, err, repository.ErrInvalidProgress)
	})

	t.Run("List", func(t *testing.T) {
		assert.Len(t, svc.List(ctx), 4)
	})
}

func TestSystemService_Info(t *testing.T) {
	svc := NewSystemService("0.1.0-alpha")

	info := svc.Info()
	assert.NotEmpty(t, info["platform"])
	assert.NotEmpty(t, info["arch"])
	assert.Equal(t, "0.1.0-alpha", info["version"])

	info["version"] = "tampered"
	assert.Equal(t, "0.1.0-alpha", svc.Info()["version"])
}
