package routes

import (
	"github.com/gin-gonic/gin"

	"manuscript-review-api/controllers"
	"manuscript-review-api/middleware"
	"manuscript-review-api/services"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Manuscript Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Reference data (all authenticated users)
			protected.GET("/tracks", controllers.GetTracks)
			protected.GET("/tracks/:id", controllers.GetTrack)
			protected.GET("/years", controllers.GetYears)

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/:id", controllers.GetManuscript)

				// Authors create and edit their own drafts
				manuscripts.POST("", middleware.RequireCapability(services.CapCreateManuscript), controllers.CreateDraft)
				manuscripts.PUT("/:id", middleware.RequireCapability(services.CapCreateManuscript), controllers.UpdateDraft)
				manuscripts.DELETE("/:id", middleware.RequireCapability(services.CapCreateManuscript), controllers.DeleteDraft)
				manuscripts.POST("/:id/submit", middleware.RequireCapability(services.CapCreateManuscript), controllers.SubmitManuscript)
				manuscripts.POST("/:id/files", middleware.RequireCapability(services.CapCreateManuscript), controllers.AttachManuscriptFile)

				// Editorial staff assign reviewers
				manuscripts.POST("/:id/assignments", middleware.RequireCapability(services.CapAssignReviewers), controllers.AssignReviewers)
				manuscripts.GET("/:id/assignments", middleware.RequireCapability(services.CapViewAllSubmissions), controllers.GetManuscriptAssignments)

				// Decisions are reserved for chief editors and admins
				manuscripts.POST("/:id/decisions", middleware.RequireCapability(services.CapMakeDecision), controllers.RecordDecision)
				manuscripts.GET("/:id/decisions", controllers.GetDecisionHistory)
				manuscripts.GET("/:id/decisions/current", controllers.GetCurrentDecision)
			}

			// Review assignments
			assignments := protected.Group("/assignments")
			{
				assignments.GET("", controllers.GetMyAssignments)
				assignments.POST("/:id/respond", middleware.RequireCapability(services.CapSubmitReview), controllers.RespondToAssignment)
				assignments.POST("/:id/review", middleware.RequireCapability(services.CapSubmitReview), controllers.SubmitReview)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// User management (chief editor / admin only)
			users := protected.Group("/users")
			users.Use(middleware.RequireCapability(services.CapManageUsers))
			{
				users.GET("", controllers.GetUsers)
				users.POST("", controllers.CreateUser)
				users.PUT("/:id/roles", controllers.UpdateUserRoles)
				users.PUT("/:id/deactivate", controllers.DeactivateUser)
			}
		}
	}
}
