package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kanban-dev/kanban/internal/auth"
	"github.com/kanban-dev/kanban/internal/config"
	"github.com/kanban-dev/kanban/internal/handlers"
	"github.com/kanban-dev/kanban/internal/middleware"
)

func NewRouter(cfg *config.Config, h *handlers.Handler, issuer *auth.Issuer, users *auth.Users) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireUser := middleware.AuthMiddleware(issuer, users)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/health/db", h.DatabaseHealth)
		api.GET("/ws/boards/:board_id", requireUser, h.WebSocket)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.CreateUser)
			authGroup.POST("/login", h.LoginUser)
			authGroup.POST("/logout", h.LogoutUser)
			authGroup.GET("/me", requireUser, h.Me)
		}

		boards := api.Group("/boards", requireUser)
		{
			boards.GET("", h.ListBoards)
			boards.POST("", h.CreateBoard)
			boards.GET("/:board_id", h.GetBoard)
			boards.PATCH("/:board_id", h.UpdateBoard)
			boards.DELETE("/:board_id", h.DeleteBoard)
			boards.POST("/:board_id/tasks", h.CreateTask)
		}

		tasks := api.Group("/tasks", requireUser)
		{
			tasks.PATCH("/:task_id", h.UpdateTask)
			tasks.POST("/:task_id/move", h.MoveTask)
			tasks.DELETE("/:task_id", h.DeleteTask)
		}

		api.GET("/columns/:column_id/tasks", requireUser, h.GetColumnTasks)
	}

	return r
}
