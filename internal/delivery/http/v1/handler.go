package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/uptrack-app/uptrack/internal/realtime"
	"github.com/uptrack-app/uptrack/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleConfirm(c *gin.Context)
	HandleForgotPassword(c *gin.Context)
	HandleCheckResetToken(c *gin.Context)
	HandleResetPassword(c *gin.Context)
	HandleProfile(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListProjects(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleFindCollaborator(c *gin.Context)
	HandleAddCollaborator(c *gin.Context)
	HandleRemoveCollaborator(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)

	HandleWebsocket(c *gin.Context)
}

type handlerImpl struct {
	logger        zerolog.Logger
	auth          services.AuthService
	projects      services.ProjectService
	collaborators services.CollaboratorService
	tasks         services.TaskService
	hub           *realtime.Hub
	upgrader      websocket.Upgrader
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	projectService services.ProjectService,
	collaboratorService services.CollaboratorService,
	taskService services.TaskService,
	hub *realtime.Hub,
) Handler {
	return &handlerImpl{
		logger:        logger,
		auth:          authService,
		projects:      projectService,
		collaborators: collaboratorService,
		tasks:         taskService,
		hub:           hub,
		upgrader: websocket.Upgrader{
			// The realtime channel performs no check of its own;
			// the HTTP layer already authorized each mutation.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}
