package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage/memory"
)

type testEnv struct {
	store         *memory.Store
	projects      ProjectService
	collaborators CollaboratorService
	tasks         TaskService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	logger := zerolog.Nop()
	return &testEnv{
		store:         store,
		projects:      NewProjectService(logger, store.Projects(), store.Tasks(), store.Users()),
		collaborators: NewCollaboratorService(logger, store.Projects(), store.Users()),
		tasks:         NewTaskService(logger, store.Tasks(), store.Projects(), store.Users()),
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	now := time.Now()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  "irrelevant-hash",
		Confirmed: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) createProject(t *testing.T, creatorID, name string) *models.Project {
	t.Helper()
	project, err := e.projects.Create(context.Background(), CreateProjectParams{
		CreatorID:   creatorID,
		Name:        name,
		Description: "a project",
		Client:      "acme",
	})
	require.NoError(t, err)
	return project
}

func (e *testEnv) addCollaborator(t *testing.T, creatorID, projectID, email string) {
	t.Helper()
	err := e.collaborators.Add(context.Background(), AddCollaboratorParams{
		UserID:    creatorID,
		ProjectID: projectID,
		Email:     email,
	})
	require.NoError(t, err)
}

func (e *testEnv) createTask(t *testing.T, creatorID, projectID, name string) *models.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), CreateTaskParams{
		UserID:      creatorID,
		ProjectID:   projectID,
		Name:        name,
		Description: "a task",
		Priority:    models.PriorityMedium,
	})
	require.NoError(t, err)
	return task
}
