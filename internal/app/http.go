package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/uptrack-app/uptrack/internal/config"
	v1 "github.com/uptrack-app/uptrack/internal/delivery/http/v1"
	"github.com/uptrack-app/uptrack/internal/services"
	"github.com/uptrack-app/uptrack/internal/storage/postgres"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{httpCfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Client-ID"},
		AllowCredentials: true,
	}))
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	userRepo := postgres.NewUserRepository(globalPostgresPool)
	projectRepo := postgres.NewProjectRepository(globalPostgresPool)
	taskRepo := postgres.NewTaskRepository(globalPostgresPool)

	v1Handler := v1.New(
		globalLogger,
		services.NewAuthService(
			globalLogger,
			userRepo,
			globalMailer,
			jwtCfg.Issuer,
			[]byte(jwtCfg.SigningKey),
			jwtCfg.TokenTTL,
		),
		services.NewProjectService(globalLogger, projectRepo, taskRepo, userRepo),
		services.NewCollaboratorService(globalLogger, projectRepo, userRepo),
		services.NewTaskService(globalLogger, taskRepo, projectRepo, userRepo),
		globalHub,
	)

	router.GET("/ws", v1Handler.HandleWebsocket)

	api := router.Group("/api")

	userRouter := api.Group("/usuarios")
	userRouter.POST("", v1Handler.HandleRegister)
	userRouter.POST("/login", v1Handler.HandleLogin)
	userRouter.GET("/confirmar/:token", v1Handler.HandleConfirm)
	userRouter.POST("/reset-password", v1Handler.HandleForgotPassword)
	userRouter.GET("/reset-password/:token", v1Handler.HandleCheckResetToken)
	userRouter.POST("/reset-password/:token", v1Handler.HandleResetPassword)
	userRouter.GET("/perfil", v1Handler.HandleAuthMiddleware, v1Handler.HandleProfile)

	projectRouter := api.Group("/proyectos", v1Handler.HandleAuthMiddleware)
	projectRouter.GET("", v1Handler.HandleListProjects)
	projectRouter.POST("", v1Handler.HandleCreateProject)
	projectRouter.GET("/:id", v1Handler.HandleGetProject)
	projectRouter.PUT("/:id", v1Handler.HandleUpdateProject)
	projectRouter.DELETE("/:id", v1Handler.HandleDeleteProject)
	projectRouter.POST("/colaboradores", v1Handler.HandleFindCollaborator)
	projectRouter.POST("/colaboradores/:id", v1Handler.HandleAddCollaborator)
	projectRouter.POST("/eliminar-colaborador/:id", v1Handler.HandleRemoveCollaborator)

	taskRouter := api.Group("/tareas", v1Handler.HandleAuthMiddleware)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("/:id", v1Handler.HandleGetTask)
	taskRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
	taskRouter.POST("/estado/:id", v1Handler.HandleToggleTask)
}
