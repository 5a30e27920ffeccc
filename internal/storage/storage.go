package storage

import (
	"context"
	"errors"

	"github.com/uptrack-app/uptrack/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type UserRepository interface {
	// Create inserts the user. It returns ErrAlreadyExists
	// when the email is already registered.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByToken looks a user up by their one-time token.
	// An empty token never matches.
	GetByToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// ListByMember returns every project in which the user is the
	// creator or a collaborator, ordered by creation time.
	ListByMember(ctx context.Context, userID string) ([]*models.Project, error)
	// Update replaces the project's mutable metadata. The creator
	// and the collaborator set are not touched.
	Update(ctx context.Context, project *models.Project) error
	// Delete removes the project together with its tasks and
	// collaborator entries.
	Delete(ctx context.Context, id string) error
	// AddCollaborator returns ErrAlreadyExists when the user
	// is already part of the collaborator set.
	AddCollaborator(ctx context.Context, projectID, userID string) error
	// RemoveCollaborator is idempotent. Removing a user who is
	// not a collaborator is not an error.
	RemoveCollaborator(ctx context.Context, projectID, userID string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// ListByProject returns the project's tasks in creation order.
	// The project's task sequence is derived from this listing;
	// there is no second stored list to keep in sync.
	ListByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}
