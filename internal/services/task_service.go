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

type taskServiceImpl struct {
	logger   zerolog.Logger
	tasks    storage.TaskRepository
	projects storage.ProjectRepository
	users    storage.UserRepository
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
	projects storage.ProjectRepository,
	users storage.UserRepository,
) TaskService {
	return &taskServiceImpl{
		logger:   logger,
		tasks:    tasks,
		projects: projects,
		users:    users,
	}
}

func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if !models.ValidPriority(params.Priority) {
		return nil, ErrInvalidTaskPriority
	}

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

	now := time.Now()
	task := &models.Task{
		Name:        params.Name,
		Description: params.Description,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		ProjectID:   project.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.DueDate.IsZero() {
		task.DueDate = now
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	// The project's task sequence is derived from project_id, so
	// this single insert keeps both sides consistent.
	err = s.tasks.Create(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Project deleted between the read and the insert.
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", project.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, _, err := s.getTaskAsCreator(ctx, userID, taskID)
	return task, err
}

func (s *taskServiceImpl) Update(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, _, err := s.getTaskAsCreator(ctx, params.UserID, params.TaskID)
	if err != nil {
		return nil, err
	}

	if params.Priority != nil && !models.ValidPriority(*params.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	if params.Name != nil {
		task.Name = *params.Name
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDate != nil {
		task.DueDate = *params.DueDate
	}
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, _, err := s.getTaskAsCreator(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	// Deleting the row removes the task from the project's derived
	// sequence in the same write.
	err = s.tasks.Delete(ctx, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("project_id", task.ProjectID).
		Msg("deleted task")
	return task, nil
}

func (s *taskServiceImpl) Toggle(ctx context.Context, userID, taskID string) (*TaskDetail, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsMember(userID) {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("user_id", userID).
			Msg("requester is not a project member")
		return nil, ErrNotProjectMember
	}

	task.Completed = !task.Completed
	// The last toggler is stamped in both directions, not only on
	// completion.
	task.CompletedBy = userID
	task.UpdatedAt = time.Now()

	err = s.tasks.Update(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task state")
		return nil, err
	}

	detail := &TaskDetail{Task: *task}
	completer, err := s.users.GetByID(ctx, userID)
	if err == nil {
		detail.CompletedByName = completer.Name
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select completer")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Str("user_id", userID).
		Msg("toggled task state")
	return detail, nil
}

func (s *taskServiceImpl) getTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) getProject(ctx context.Context, projectID string) (*models.Project, error) {
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

// getTaskAsCreator loads a task and authorizes the requester as the
// owning project's creator. Detail reads, edits and deletion are
// creator-only; collaborators may only toggle state.
func (s *taskServiceImpl) getTaskAsCreator(ctx context.Context, userID, taskID string) (*models.Task, *models.Project, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}

	if !project.IsCreator(userID) {
		s.logger.Error().
			Str("task_id", task.ID).
			Str("user_id", userID).
			Msg("requester is not the project creator")
		return nil, nil, ErrNotProjectCreator
	}
	return task, project, nil
}
