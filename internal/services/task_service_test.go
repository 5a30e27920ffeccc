package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptrack-app/uptrack/internal/models"
)

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)

	first := env.createTask(t, creator.ID, project.ID, "first")
	second := env.createTask(t, creator.ID, project.ID, "second")

	// New tasks show up on the project detail in creation order.
	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tasks, 2)
	assert.Equal(t, first.ID, detail.Tasks[0].Task.ID)
	assert.Equal(t, second.ID, detail.Tasks[1].Task.ID)

	_, err = env.tasks.Create(ctx, CreateTaskParams{
		UserID:    collaborator.ID,
		ProjectID: project.ID,
		Name:      "not allowed",
		Priority:  models.PriorityLow,
	})
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	_, err = env.tasks.Create(ctx, CreateTaskParams{
		UserID:    creator.ID,
		ProjectID: "missing-project",
		Name:      "nowhere",
		Priority:  models.PriorityLow,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = env.tasks.Create(ctx, CreateTaskParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Name:      "bad priority",
		Priority:  "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestTaskService_CreatorOnlyDetailAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)
	task := env.createTask(t, creator.ID, project.ID, "restricted")

	got, err := env.tasks.Get(ctx, creator.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Collaborators can toggle tasks but cannot read them
	// individually; they see tasks through the project detail.
	_, err = env.tasks.Get(ctx, collaborator.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	name := "renamed"
	_, err = env.tasks.Update(ctx, UpdateTaskParams{
		UserID: collaborator.ID,
		TaskID: task.ID,
		Name:   &name,
	})
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	_, err = env.tasks.Delete(ctx, collaborator.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotProjectCreator)
}

func TestTaskService_UpdateMergeIfPresent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	project := env.createProject(t, creator.ID, "shared")
	task := env.createTask(t, creator.ID, project.ID, "before")

	name := "after"
	priority := models.PriorityHigh
	updated, err := env.tasks.Update(ctx, UpdateTaskParams{
		UserID:   creator.ID,
		TaskID:   task.ID,
		Name:     &name,
		Priority: &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, task.Description, updated.Description, "omitted fields keep their value")

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	updated, err = env.tasks.Update(ctx, UpdateTaskParams{
		UserID:  creator.ID,
		TaskID:  task.ID,
		DueDate: &due,
	})
	require.NoError(t, err)
	assert.True(t, updated.DueDate.Equal(due))
	assert.Equal(t, "after", updated.Name)

	bad := "urgent"
	_, err = env.tasks.Update(ctx, UpdateTaskParams{
		UserID:   creator.ID,
		TaskID:   task.ID,
		Priority: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidTaskPriority)
}

func TestTaskService_Toggle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")
	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)
	task := env.createTask(t, creator.ID, project.ID, "toggle-me")

	detail, err := env.tasks.Toggle(ctx, collaborator.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, detail.Task.Completed)
	assert.Equal(t, collaborator.ID, detail.Task.CompletedBy)
	assert.Equal(t, "Collab", detail.CompletedByName)

	// Toggling back off still stamps whoever touched it last.
	detail, err = env.tasks.Toggle(ctx, creator.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, detail.Task.Completed)
	assert.Equal(t, creator.ID, detail.Task.CompletedBy)
	assert.Equal(t, "Creator", detail.CompletedByName)

	_, err = env.tasks.Toggle(ctx, stranger.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotProjectMember)

	_, err = env.tasks.Toggle(ctx, creator.ID, "missing-task")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	project := env.createProject(t, creator.ID, "shared")
	task := env.createTask(t, creator.ID, project.ID, "doomed")

	deleted, err := env.tasks.Delete(ctx, creator.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, deleted.ProjectID)

	_, err = env.tasks.Get(ctx, creator.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Tasks)
}
