package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/services"
)

type getProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Client      string    `json:"client"`
	DueDate     time.Time `json:"due_date"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Client:      project.Client,
		DueDate:     project.DueDate,
		CreatorID:   project.CreatorID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type projectDetailResponse struct {
	getProjectResponse
	Tasks         []getTaskResponse `json:"tasks"`
	Collaborators []profileResponse `json:"collaborators"`
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	projects, err := h.projects.List(c, principal.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list projects")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = newGetProjectResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

type createProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description" binding:"required"`
	Client      string     `json:"client" binding:"required,max=255"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateProjectParams{
		CreatorID:   principal.ID,
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
	}
	if req.DueDate != nil {
		params.DueDate = *req.DueDate
	}

	project, err := h.projects.Create(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	detail, err := h.projects.GetDetail(c, principal.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get project detail")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
		case errors.Is(err, services.ErrNotProjectMember):
			abort(c, newForbiddenError(services.ErrNotProjectMember.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	response := projectDetailResponse{
		getProjectResponse: newGetProjectResponse(&detail.Project),
		Tasks:              make([]getTaskResponse, len(detail.Tasks)),
		Collaborators:      make([]profileResponse, len(detail.Collaborators)),
	}
	for i, task := range detail.Tasks {
		response.Tasks[i] = newGetTaskDetailResponse(task)
	}
	for i, collaborator := range detail.Collaborators {
		response.Collaborators[i] = profileResponse{
			ID:    collaborator.ID,
			Name:  collaborator.Name,
			Email: collaborator.Email,
		}
	}
	c.JSON(http.StatusOK, response)
}

type updateProjectRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Client      *string    `json:"client,omitempty" binding:"omitempty,max=255"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.Update(c, services.UpdateProjectParams{
		UserID:      principal.ID,
		ProjectID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update project")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
		case errors.Is(err, services.ErrNotProjectCreator):
			abort(c, newForbiddenError(services.ErrNotProjectCreator.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	err := h.projects.Delete(c, principal.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete project")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
		case errors.Is(err, services.ErrNotProjectCreator):
			abort(c, newForbiddenError(services.ErrNotProjectCreator.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "project deleted"})
}

type findCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

func (h *handlerImpl) HandleFindCollaborator(c *gin.Context) {
	if _, ok := h.mustPrincipal(c); !ok {
		return
	}

	var req findCollaboratorRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	candidate, err := h.collaborators.FindCandidate(c, req.Email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to find collaborator candidate")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:    candidate.ID,
		Name:  candidate.Name,
		Email: candidate.Email,
	})
}

type addCollaboratorRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

func (h *handlerImpl) HandleAddCollaborator(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req addCollaboratorRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.collaborators.Add(c, services.AddCollaboratorParams{
		UserID:    principal.ID,
		ProjectID: c.Param("id"),
		Email:     req.Email,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to add collaborator")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
		case errors.Is(err, services.ErrNotProjectCreator):
			abort(c, newForbiddenError(services.ErrNotProjectCreator.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
		case errors.Is(err, services.ErrCreatorAsCollaborator):
			abort(c, newConflictError(services.ErrCreatorAsCollaborator.Error()))
		case errors.Is(err, services.ErrCollaboratorExists):
			abort(c, newConflictError(services.ErrCollaboratorExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "collaborator added"})
}

type removeCollaboratorRequest struct {
	ID string `json:"id" binding:"required"`
}

func (h *handlerImpl) HandleRemoveCollaborator(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req removeCollaboratorRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.collaborators.Remove(c, services.RemoveCollaboratorParams{
		UserID:         principal.ID,
		ProjectID:      c.Param("id"),
		CollaboratorID: req.ID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to remove collaborator")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
		case errors.Is(err, services.ErrNotProjectCreator):
			abort(c, newForbiddenError(services.ErrNotProjectCreator.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "collaborator removed"})
}
