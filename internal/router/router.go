package router

import (
	"time"

	"github.com/clockwise-dev/clockwise/internal/handlers"
	"github.com/clockwise-dev/clockwise/internal/identity"
	"github.com/clockwise-dev/clockwise/internal/middleware"
	"github.com/clockwise-dev/clockwise/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(verifier identity.TokenVerifier) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/register/", handlers.Register)
		auth.POST("/token/", handlers.ObtainToken)
		auth.POST("/token/refresh/", handlers.RefreshToken)
		auth.POST("/firebase-login/", handlers.FirebaseLogin(verifier))
	}

	protected := r.Group("", middleware.AuthMiddleware(verifier))
	{
		protected.GET("/user/", handlers.Me)
		protected.PATCH("/user/", handlers.UpdateUser)
		protected.DELETE("/user/", handlers.DeleteUser)

		clients := protected.Group("/clients")
		{
			clients.GET("/", handlers.ListClients)
			clients.POST("/", handlers.CreateClient)
			clients.GET("/:id/", handlers.GetClient)
			clients.PUT("/:id/", handlers.UpdateClient)
			clients.PATCH("/:id/", handlers.UpdateClient)
			clients.DELETE("/:id/", handlers.DeleteClient)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("/", handlers.ListProjects)
			projects.POST("/", handlers.CreateProject)
			projects.GET("/:id/", handlers.GetProject)
			projects.PUT("/:id/", handlers.UpdateProject)
			projects.PATCH("/:id/", handlers.UpdateProject)
			projects.DELETE("/:id/", handlers.DeleteProject)
		}

		tags := protected.Group("/tags")
		{
			tags.GET("/", handlers.ListTags)
			tags.POST("/", handlers.CreateTag)
			tags.GET("/:id/", handlers.GetTag)
			tags.PUT("/:id/", handlers.UpdateTag)
			tags.PATCH("/:id/", handlers.UpdateTag)
			tags.DELETE("/:id/", handlers.DeleteTag)
		}

		timeEntries := protected.Group("/time-entries")
		{
			timeEntries.GET("/", handlers.ListTimeEntries)
			timeEntries.POST("/", handlers.CreateTimeEntry)
			timeEntries.GET("/:id/", handlers.GetTimeEntry)
			timeEntries.PUT("/:id/", handlers.UpdateTimeEntry)
			timeEntries.PATCH("/:id/", handlers.UpdateTimeEntry)
			timeEntries.DELETE("/:id/", handlers.DeleteTimeEntry)
		}

		protected.GET("/settings/", handlers.GetSettings)
		protected.PUT("/settings/", handlers.UpdateSettings)
		protected.POST("/settings/", handlers.UpdateSettings)

		protected.GET("/reports/", handlers.Reports)
		protected.POST("/reports/", handlers.Reports)

		protected.GET("/calendar/", handlers.Calendar)
		protected.POST("/calendar/", handlers.Calendar)
	}

	return r
}
