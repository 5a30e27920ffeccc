package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type projectServiceImpl struct {
	logger   zerolog.Logger
	projects storage.ProjectRepository
	tasks    storage.TaskRepository
	users    storage.UserRepository
}

func NewProjectService(
	logger zerolog.Logger,
	projects storage.ProjectRepository,
	tasks storage.TaskRepository,
	users storage.UserRepository,
) ProjectService {
	return &projectServiceImpl{
		logger:   logger,
		projects: projects,
		tasks:    tasks,
		users:    users,
	}
}

func (s *projectServiceImpl) List(ctx context.Context, userID string) ([]*models.Project, error) {
	projects, err := s.projects.ListByMember(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects by member")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(projects)).
		Str("user_id", userID).
		Msg("selected projects by member")
	return projects, nil
}

func (s *projectServiceImpl) Create(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	now := time.Now()
	project := &models.Project{
		Name:        params.Name,
		Description: params.Description,
		Client:      params.Client,
		DueDate:     params.DueDate,
		CreatorID:   params.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if project.DueDate.IsZero() {
		project.DueDate = now
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}
	project.ID = projectUUID.String()

	err = s.projects.Create(ctx, project)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("creator_id", project.CreatorID).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) GetDetail(ctx context.Context, userID, projectID string) (*ProjectDetail, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.IsMember(userID) {
		s.logger.Error().
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("requester is not a project member")
		return nil, ErrNotProjectMember
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select tasks by project")
		return nil, err
	}

	detail := &ProjectDetail{Project: *project}

	// Completer names are resolved once per distinct user.
	names := make(map[string]string)
	for _, task := range tasks {
		taskDetail := TaskDetail{Task: *task}
		if task.CompletedBy != "" {
			name, ok := names[task.CompletedBy]
			if !ok {
				name, err = s.lookupUserName(ctx, task.CompletedBy)
				if err != nil {
					return nil, err
				}
				names[task.CompletedBy] = name
			}
			taskDetail.CompletedByName = name
		}
		detail.Tasks = append(detail.Tasks, taskDetail)
	}

	for _, collaboratorID := range project.CollaboratorIDs {
		user, err := s.users.GetByID(ctx, collaboratorID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", collaboratorID).
				Msg("failed to select collaborator")
			return nil, err
		}
		detail.Collaborators = append(detail.Collaborators, user.Profile())
	}

	s.logger.Debug().
		Str("project_id", projectID).
		Int("tasks", len(detail.Tasks)).
		Int("collaborators", len(detail.Collaborators)).
		Msg("expanded project detail")
	return detail, nil
}

func (s *projectServiceImpl) Update(ctx context.Context, params UpdateProjectParams) (*models.Project, error) {
	project, err := s.getProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsCreator(params.UserID) {
		s.logger.Error().
			Str("project_id", project.ID).
			Str("user_id", params.UserID).
			Msg("requester is not the project creator")
		return nil, ErrNotProjectCreator
	}

	// Merge-if-present: a field keeps its previous value unless a
	// new one was supplied, even when the new value is equal.
	if params.Name != nil {
		project.Name = *params.Name
	}
	if params.Description != nil {
		project.Description = *params.Description
	}
	if params.Client != nil {
		project.Client = *params.Client
	}
	if params.DueDate != nil {
		project.DueDate = *params.DueDate
	}
	project.UpdatedAt = time.Now()

	err = s.projects.Update(ctx, project)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to update project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) Delete(ctx context.Context, userID, projectID string) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !project.IsCreator(userID) {
		s.logger.Error().
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("requester is not the project creator")
		return ErrNotProjectCreator
	}

	err = s.projects.Delete(ctx, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		return err
	}

	s.logger.Info().
		Str("project_id", projectID).
		Msg("deleted project")
	return nil
}

func (s *projectServiceImpl) getProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("project_id", projectID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project by id")
		return nil, err
	}
	return project, nil
}

func (s *projectServiceImpl) lookupUserName(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The completer account may have been removed; the
			// task itself is still valid.
			return "", nil
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return "", err
	}
	return user.Name, nil
}
