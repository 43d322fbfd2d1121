package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/goalpost-dev/goalpost/internal/handlers"
	"github.com/goalpost-dev/goalpost/internal/middleware"
	"github.com/goalpost-dev/goalpost/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.EventStream)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		goals := api.Group("/goals", middleware.AuthMiddleware())
		{
			goals.POST("", handlers.CreateGoal)
			goals.GET("", handlers.ListGoals)
			goals.GET("/:goal_id", handlers.GetGoal)
			goals.PUT("/:goal_id", handlers.UpdateGoal)
			goals.DELETE("/:goal_id", handlers.DeleteGoal)

			// Task endpoints
			goals.POST("/:goal_id/tasks", handlers.CreateTask)
			goals.PUT("/:goal_id/tasks/:task_id", handlers.UpdateTask)
			goals.DELETE("/:goal_id/tasks/:task_id", handlers.DeleteTask)
		}

		api.GET("/achievements", middleware.AuthMiddleware(), handlers.GetAchievements)
	}

	return r
}
