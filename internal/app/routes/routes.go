package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusconnect/internal/app/controllers"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	Alumni  *controllers.AlumniController
	Admin   *controllers.AdminController
	Event   *controllers.EventController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", c.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/verify-otp", c.Auth.VerifyOTP)
		auth.POST("/resend-otp", c.Auth.ResendOTP)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	student := authenticated.Group("/student")
	{
		// admins browse the directory too
		student.GET("/alumni", authMiddleware.RoleRequired(models.RoleStudent, models.RoleAdmin), c.Student.SearchAlumni)

		studentOnly := student.Group("")
		studentOnly.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			studentOnly.POST("/request-mentorship", c.Student.RequestMentorship)
			studentOnly.GET("/requests", c.Student.ListRequests)
			studentOnly.POST("/upload-resume", c.Student.UploadResume)
		}
	}

	alumni := authenticated.Group("/alumni")
	alumni.Use(authMiddleware.RoleRequired(models.RoleAlumni))
	{
		alumni.GET("/requests", c.Alumni.ListRequests)
		alumni.PATCH("/mentorship-status", c.Alumni.ToggleMentorship)
		alumni.PUT("/profile", c.Alumni.UpdateProfile)
	}

	mentorship := authenticated.Group("/mentorship")
	mentorship.Use(authMiddleware.RoleRequired(models.RoleAlumni))
	{
		mentorship.PATCH("/:id/status", c.Alumni.UpdateRequestStatus)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/stats", c.Admin.Stats)
		admin.GET("/pending-alumni", c.Admin.PendingAlumni)
		admin.GET("/users", c.Admin.ListUsers)
		admin.POST("/update-approval", c.Admin.UpdateApproval)
		admin.PATCH("/users/:id/toggle-status", c.Admin.ToggleUserStatus)
	}

	events := authenticated.Group("/events")
	{
		events.GET("", c.Event.List)

		eventsAdmin := events.Group("")
		eventsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			eventsAdmin.POST("", c.Event.Create)
			eventsAdmin.PUT("/:id", c.Event.Update)
			eventsAdmin.DELETE("/:id", c.Event.Delete)
		}
	}
}
