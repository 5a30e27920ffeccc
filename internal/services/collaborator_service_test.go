package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollaboratorService_FindCandidate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.createUser(t, "Known", "known@example.com")

	profile, err := env.collaborators.FindCandidate(ctx, "known@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "Known", profile.Name)

	_, err = env.collaborators.FindCandidate(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCollaboratorService_Add(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	other := env.createUser(t, "Other", "other@example.com")
	project := env.createProject(t, creator.ID, "shared")

	// The creator is already a member and cannot also collaborate.
	err := env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Email:     creator.Email,
	})
	assert.ErrorIs(t, err, ErrCreatorAsCollaborator)

	err = env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Email:     other.Email,
	})
	require.NoError(t, err)

	// Adding the same person twice is a conflict, not a silent no-op.
	err = env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Email:     other.Email,
	})
	assert.ErrorIs(t, err, ErrCollaboratorExists)

	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, detail.Collaborators, 1)
	assert.Equal(t, other.ID, detail.Collaborators[0].ID)
}

func TestCollaboratorService_AddErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	other := env.createUser(t, "Other", "other@example.com")
	project := env.createProject(t, creator.ID, "shared")

	err := env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    creator.ID,
		ProjectID: "missing-project",
		Email:     other.Email,
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	err = env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    other.ID,
		ProjectID: project.ID,
		Email:     other.Email,
	})
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	err = env.collaborators.Add(ctx, AddCollaboratorParams{
		UserID:    creator.ID,
		ProjectID: project.ID,
		Email:     "nobody@example.com",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCollaboratorService_Remove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	creator := env.createUser(t, "Creator", "creator@example.com")
	collaborator := env.createUser(t, "Collab", "collab@example.com")
	project := env.createProject(t, creator.ID, "shared")
	env.addCollaborator(t, creator.ID, project.ID, collaborator.Email)

	err := env.collaborators.Remove(ctx, RemoveCollaboratorParams{
		UserID:         collaborator.ID,
		ProjectID:      project.ID,
		CollaboratorID: collaborator.ID,
	})
	assert.ErrorIs(t, err, ErrNotProjectCreator)

	require.NoError(t, env.collaborators.Remove(ctx, RemoveCollaboratorParams{
		UserID:         creator.ID,
		ProjectID:      project.ID,
		CollaboratorID: collaborator.ID,
	}))

	detail, err := env.projects.GetDetail(ctx, creator.ID, project.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Collaborators)

	// Removal is idempotent.
	assert.NoError(t, env.collaborators.Remove(ctx, RemoveCollaboratorParams{
		UserID:         creator.ID,
		ProjectID:      project.ID,
		CollaboratorID: collaborator.ID,
	}))

	// The removed user lost access.
	_, err = env.projects.GetDetail(ctx, collaborator.ID, project.ID)
	assert.ErrorIs(t, err, ErrNotProjectMember)
}
