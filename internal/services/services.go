package services

import (
	"context"
	"errors"
	"time"

	"github.com/uptrack-app/uptrack/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already registered")
	ErrUserNotConfirmed     = errors.New("account has not been confirmed")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrTokenInvalid         = errors.New("token is not valid")

	ErrProjectNotFound   = errors.New("project not found")
	ErrNotProjectCreator = errors.New("requester is not the project creator")
	ErrNotProjectMember  = errors.New("requester is neither creator nor collaborator")

	ErrCollaboratorExists    = errors.New("collaborator already added")
	ErrCreatorAsCollaborator = errors.New("the creator cannot be a collaborator")

	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

type AuthService interface {
	// Register creates an unconfirmed user with a hashed password
	// and a fresh one-time token, then sends the confirmation mail.
	//
	// It returns ErrUserAlreadyExists when the email is taken.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Confirm consumes the one-time token and marks the account
	// confirmed. It returns ErrTokenInvalid when no user carries
	// the token.
	Confirm(ctx context.Context, token string) error

	// Login authenticates by email and password and returns the
	// user's profile together with a signed bearer token.
	//
	// It returns ErrUserNotFound, ErrUserNotConfirmed or
	// ErrUserPasswordMismatch.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// ForgotPassword regenerates the user's one-time token and
	// sends the reset mail. It returns ErrUserNotFound.
	ForgotPassword(ctx context.Context, email string) error

	// CheckResetToken reports whether a reset token is still
	// outstanding. It returns ErrTokenInvalid otherwise.
	CheckResetToken(ctx context.Context, token string) error

	// ResetPassword consumes the one-time token and stores the
	// new password hash. It returns ErrTokenInvalid.
	ResetPassword(ctx context.Context, token, password string) error

	// Resolve turns a bearer token into the requesting principal.
	// Sensitive fields never pass this boundary. It returns
	// ErrTokenInvalid when verification fails or the referenced
	// user no longer exists.
	Resolve(ctx context.Context, token string) (*models.Profile, error)
}

type ProjectService interface {
	// List returns every project the user created or collaborates
	// on, without task detail.
	List(ctx context.Context, userID string) ([]*models.Project, error)

	Create(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// GetDetail returns the project with its task list expanded
	// (including the name of whoever completed each task) and its
	// collaborators expanded to minimal profiles.
	//
	// It returns ErrProjectNotFound or ErrNotProjectMember.
	GetDetail(ctx context.Context, userID, projectID string) (*ProjectDetail, error)

	// Update replaces only the metadata fields a new value was
	// supplied for. Creator only.
	Update(ctx context.Context, params UpdateProjectParams) (*models.Project, error)

	// Delete removes the project together with its tasks and
	// collaborator entries. Creator only.
	Delete(ctx context.Context, userID, projectID string) error
}

type CollaboratorService interface {
	// FindCandidate looks a user up by email and returns the
	// minimal profile, or ErrUserNotFound.
	FindCandidate(ctx context.Context, email string) (*models.Profile, error)

	// Add appends the user with the given email to the project's
	// collaborator set. Creator only. It returns
	// ErrCreatorAsCollaborator or ErrCollaboratorExists on the
	// two conflict cases.
	Add(ctx context.Context, params AddCollaboratorParams) error

	// Remove drops the user from the collaborator set. Creator
	// only. Removing a non-member is not an error.
	Remove(ctx context.Context, params RemoveCollaboratorParams) error
}

type TaskService interface {
	// Create adds a task to the project. Creator only.
	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// Get returns a single task. Restricted to the owning
	// project's creator; collaborators read tasks through the
	// project detail instead.
	Get(ctx context.Context, userID, taskID string) (*models.Task, error)

	// Update replaces only the fields a new value was supplied
	// for. The task's project cannot be changed. Creator only.
	Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// Delete removes the task and returns it so callers still
	// know which project it belonged to. Creator only.
	Delete(ctx context.Context, userID, taskID string) (*models.Task, error)

	// Toggle flips the task's completion state and stamps the
	// toggling user as the completer, in both directions. Allowed
	// for the creator and every collaborator.
	Toggle(ctx context.Context, userID, taskID string) (*TaskDetail, error)
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	Profile models.Profile
	Token   string
}

type CreateProjectParams struct {
	CreatorID   string
	Name        string
	Description string
	Client      string
	DueDate     time.Time
}

type UpdateProjectParams struct {
	UserID      string
	ProjectID   string
	Name        *string
	Description *string
	Client      *string
	DueDate     *time.Time
}

type ProjectDetail struct {
	Project       models.Project
	Tasks         []TaskDetail
	Collaborators []models.Profile
}

type TaskDetail struct {
	Task models.Task
	// CompletedByName is the display name of the user referenced
	// by Task.CompletedBy, empty when the task was never toggled.
	CompletedByName string
}

type AddCollaboratorParams struct {
	UserID    string
	ProjectID string
	Email     string
}

type RemoveCollaboratorParams struct {
	UserID         string
	ProjectID      string
	CollaboratorID string
}

type CreateTaskParams struct {
	UserID      string
	ProjectID   string
	Name        string
	Description string
	Priority    string
	DueDate     time.Time
}

type UpdateTaskParams struct {
	UserID      string
	TaskID      string
	Name        *string
	Description *string
	Priority    *string
	DueDate     *time.Time
}
