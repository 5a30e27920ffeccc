package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type collaboratorServiceImpl struct {
	logger   zerolog.Logger
	projects storage.ProjectRepository
	users    storage.UserRepository
}

func NewCollaboratorService(
	logger zerolog.Logger,
	projects storage.ProjectRepository,
	users storage.UserRepository,
) CollaboratorService {
	return &collaboratorServiceImpl{
		logger:   logger,
		projects: projects,
		users:    users,
	}
}

func (s *collaboratorServiceImpl) FindCandidate(ctx context.Context, email string) (*models.Profile, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("collaborator candidate not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *collaboratorServiceImpl) Add(ctx context.Context, params AddCollaboratorParams) error {
	project, err := s.projects.GetByID(ctx, params.ProjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("project_id", params.ProjectID).
				Msg("project not found")
			return ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", params.ProjectID).
			Msg("failed to select project by id")
		return err
	}

	if !project.IsCreator(params.UserID) {
		s.logger.Error().
			Str("project_id", project.ID).
			Str("user_id", params.UserID).
			Msg("requester is not the project creator")
		return ErrNotProjectCreator
	}

	candidate, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", params.Email).
				Msg("collaborator candidate not found")
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to select user by email")
		return err
	}

	// The creator is never part of the collaborator set.
	if project.IsCreator(candidate.ID) {
		s.logger.Error().
			Str("project_id", project.ID).
			Msg("creator cannot be added as collaborator")
		return ErrCreatorAsCollaborator
	}

	if project.IsCollaborator(candidate.ID) {
		s.logger.Error().
			Str("project_id", project.ID).
			Str("user_id", candidate.ID).
			Msg("collaborator already added")
		return ErrCollaboratorExists
	}

	err = s.projects.AddCollaborator(ctx, project.ID, candidate.ID)
	if err != nil {
		// The set's uniqueness constraint backstops the check
		// above under concurrent adds.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return ErrCollaboratorExists
		}

		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Str("user_id", candidate.ID).
			Msg("failed to insert collaborator")
		return err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", candidate.ID).
		Msg("added collaborator")
	return nil
}

func (s *collaboratorServiceImpl) Remove(ctx context.Context, params RemoveCollaboratorParams) error {
	project, err := s.projects.GetByID(ctx, params.ProjectID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("project_id", params.ProjectID).
				Msg("project not found")
			return ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", params.ProjectID).
			Msg("failed to select project by id")
		return err
	}

	if !project.IsCreator(params.UserID) {
		s.logger.Error().
			Str("project_id", project.ID).
			Str("user_id", params.UserID).
			Msg("requester is not the project creator")
		return ErrNotProjectCreator
	}

	err = s.projects.RemoveCollaborator(ctx, project.ID, params.CollaboratorID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Str("user_id", params.CollaboratorID).
			Msg("failed to delete collaborator")
		return err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("user_id", params.CollaboratorID).
		Msg("removed collaborator")
	return nil
}
