package server

import (
	"taskflow/internal/handlers"
	"taskflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

type routeHandlers struct {
	auth    *handlers.AuthHandler
	account *handlers.AccountHandler
	project *handlers.ProjectHandler
	task    *handlers.TaskHandler
	view    *handlers.ViewHandler
	creator *handlers.CreatorHandler
}

func (s *Server) routes(h routeHandlers) {
	r := s.Router

	r.GET("/healthz", s.Monitor.HealthHandler())
	r.GET("/readyz", s.Monitor.ReadinessHandler())
	r.GET("/livez", s.Monitor.LivenessHandler())

	limited := []gin.HandlerFunc{}
	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerMin, s.config.RateLimit.BurstSize)
		limited = append(limited, limiter.Middleware())
	}

	r.GET("/", h.auth.Landing)
	r.GET("/pricing", h.account.Pricing)
	r.GET("/register", h.auth.RegisterForm)
	r.POST("/register", append(limited, h.auth.Register)...)
	r.GET("/login", h.auth.LoginForm)
	r.POST("/login", append(limited, h.auth.Login)...)
	r.GET("/logout", h.auth.Logout)

	app := r.Group("/", middleware.RequireLogin())
	{
		app.GET("/metrics", s.Monitor.MetricsHandler())

		app.GET("/onboarding", h.account.OnboardingForm)
		app.POST("/onboarding", h.account.Onboarding)
		app.POST("/upgrade_creator", h.account.UpgradeCreator)
		app.GET("/profile", h.account.ProfileForm)
		app.POST("/profile", h.account.Profile)
		app.GET("/profile/password", h.account.PasswordForm)
		app.POST("/profile/password", h.account.ChangePassword)

		app.GET("/dashboard", h.view.Dashboard)
		app.GET("/today", h.view.Today)
		app.GET("/calendar", h.view.Calendar)
		app.GET("/search", h.view.Search)
		app.GET("/analytics", h.view.Analytics)

		app.GET("/creator", h.creator.Dashboard)
		app.GET("/creator/pipeline", h.creator.Pipeline)
		app.GET("/creator/content/new", h.creator.NewContentForm)
		app.POST("/creator/content/new", h.creator.CreateContent)

		app.GET("/project/new", h.project.NewForm)
		app.POST("/project/new", h.project.Create)
		app.GET("/project/:id", h.project.Show)
		app.POST("/project/:id/delete", h.project.Delete)
		app.POST("/project/:id/task/add", h.project.AddTask)

		app.GET("/task/:id", h.task.Show)
		app.GET("/task/:id/drawer", h.task.Drawer)
		app.GET("/task/:id/edit", h.task.EditForm)
		app.POST("/task/:id/edit", h.task.Edit)
		app.POST("/task/:id/delete", h.task.Delete)
		app.POST("/task/:id/status/:value", h.task.SetStatus)
		app.POST("/task/:id/creator_stage/:value", h.task.SetStage)
	}

	move := []gin.HandlerFunc{}
	if c := s.corsMiddleware(); c != nil {
		move = append(move, c)
		r.OPTIONS("/task/:id/move_date", c)
	}
	move = append(move, middleware.RequireLogin(), h.task.MoveDate)
	r.POST("/task/:id/move_date", move...)
}
