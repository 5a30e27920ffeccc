package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")

	project := env.createProject(t, creator.ID, "shared")
	env.createProject(t, stranger.ID, "unrelated")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)

	got, err := env.projects.List(ctx, creator.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, project.ID, got[0].ID)

	got, err = env.projects.List(ctx, collaborator.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, project.ID, got[0].ID)
}

func TestProjectService_GetDetailAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")

	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)

	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, detail.Collaborators, 1)
	assert.Equal(t, collaborator.ID, detail.Collaborators[0].ID)

	_, err = env.projects.GetDetail(ctx, collaborator.ID, project.ID)
	assert.NoError(t, err)

	_, err = env.projects.GetDetail(ctx, stranger.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotProjectMember)

	_, err = env.projects.GetDetail(ctx, creator.ID, "missing-project")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_GetDetailExpandsTasks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")

	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)
	first := env.createTask(t, creator.ID, project.ID, "first")
	second := env.createTask(t, creator.ID, project.ID, "second")

	_, err := env.tasks.Toggle(ctx, collaborator.ID, second.ID)
	require.NoError(t, err)

	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tasks, 2)
	assert.Equal(t, first.ID, detail.Tasks[0].Task.ID)
	assert.Equal(t, second.ID, detail.Tasks[1].Task.ID)
	assert.Empty(t, detail.Tasks[0].CompletedByName)
	assert.Equal(t, "Collab", detail.Tasks[1].CompletedByName)
}

func TestProjectService_UpdateMergeIfPresent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")

	project := env.createProject(t, creator.ID, "before")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)

	name := "after"
	updated, err := env.projects.Update(ctx, UpdateProjectParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Name:      &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, project.Description, updated.Description, "omitted fields keep their value")
	assert.Equal(t, project.Client, updated.Client)

	// Supplying a value always replaces, even an empty one.
	empty := ""
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	updated, err = env.projects.Update(ctx, UpdateProjectParams{
		UserID:      creator.ID,
		ProjectID:   project.ID,
		Description: &empty,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.True(t, updated.DueDate.Equal(due))

	_, err = env.projects.Update(ctx, UpdateProjectParams{
		UserID:    collaborator.ID,
		ProjectID: project.ID,
		Name:      &name,
	})
	assert.ErrorIs(t, err, ErrNotProjectCreator, "collaborators have no metadata rights")
}

func TestProjectService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	stranger := env.createUser(t, "Stranger", "stranger@example.com")

	project := env.createProject(t, creator.ID, "doomed")
	task := env.createTask(t, creator.ID, project.ID, "orphan-to-be")

	err := env.projects.Delete(ctx, stranger.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	require.NoError(t, env.projects.Delete(ctx, creator.ID, project.ID))

	_, err = env.projects.GetDetail(ctx, creator.ID, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	// No orphaned tasks survive the project.
	_, err = env.tasks.Get(ctx, creator.ID, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
