package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/realtime"
	"github.com/uptrack-app/uptrack/internal/services"
)

type getTaskResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Completed       bool      `json:"completed"`
	DueDate         time.Time `json:"due_date"`
	Priority        string    `json:"priority"`
	ProjectID       string    `json:"project_id"`
	CompletedBy     string    `json:"completed_by,omitempty"`
	CompletedByName string    `json:"completed_by_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		CompletedBy: task.CompletedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newGetTaskDetailResponse(detail services.TaskDetail) getTaskResponse {
	response := newGetTaskResponse(&detail.Task)
	response.CompletedByName = detail.CompletedByName
	return response
}

type createTaskRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description" binding:"required"`
	Priority    string     `json:"priority" binding:"required,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{
		UserID:      principal.ID,
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		params.DueDate = *req.DueDate
	}

	task, err := h.tasks.Create(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		h.abortTaskError(c, err)
		return
	}

	response := newGetTaskResponse(task)
	// Broadcast after the store write, so subscribers never see an
	// event for state that was not committed.
	h.hub.Broadcast(c.GetHeader(clientIDHeader), task.ProjectID,
		realtime.EventTaskCreated, response)

	c.JSON(http.StatusCreated, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c, principal.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Update(c, services.UpdateTaskParams{
		UserID:      principal.ID,
		TaskID:      c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		h.abortTaskError(c, err)
		return
	}

	response := newGetTaskResponse(task)
	h.hub.Broadcast(c.GetHeader(clientIDHeader), task.ProjectID,
		realtime.EventTaskUpdated, response)

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	task, err := h.tasks.Delete(c, principal.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		h.abortTaskError(c, err)
		return
	}

	h.hub.Broadcast(c.GetHeader(clientIDHeader), task.ProjectID,
		realtime.EventTaskDeleted, newGetTaskResponse(task))

	c.JSON(http.StatusOK, gin.H{"msg": "task deleted"})
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	principal, ok := h.mustPrincipal(c)
	if !ok {
		return
	}

	detail, err := h.tasks.Toggle(c, principal.ID, c.Param("id"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to toggle task state")
		h.abortTaskError(c, err)
		return
	}

	response := newGetTaskDetailResponse(*detail)
	h.hub.Broadcast(c.GetHeader(clientIDHeader), detail.Task.ProjectID,
		realtime.EventTaskStateChanged, response)

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	case errors.Is(err, services.ErrProjectNotFound):
		abort(c, newNotFoundError(services.ErrProjectNotFound.Error()))
	case errors.Is(err, services.ErrNotProjectCreator):
		abort(c, newForbiddenError(services.ErrNotProjectCreator.Error()))
	case errors.Is(err, services.ErrNotProjectMember):
		abort(c, newForbiddenError(services.ErrNotProjectMember.Error()))
	case errors.Is(err, services.ErrInvalidTaskPriority):
		abort(c, newBadRequestError(services.ErrInvalidTaskPriority.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
