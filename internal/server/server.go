// Package server assembles the TaskFlow HTTP application.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskflow/internal/cache"
	"taskflow/internal/clock"
	"taskflow/internal/config"
	"taskflow/internal/database"
	"taskflow/internal/handlers"
	"taskflow/internal/middleware"
	"taskflow/internal/monitoring"
	"taskflow/internal/repositories"
	"taskflow/internal/services"
	"taskflow/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config *config.Config
	Pool   *database.DatabasePool
	Cache  *cache.MultiLevelCache
	Clock  clock.Clock
}

type Server struct {
	Router   *gin.Engine
	Monitor  *monitoring.Monitor
	Insights *services.CachedInsightService
	config   *config.Config
}

func New(deps Dependencies) (*Server, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	if deps.Pool == nil {
		return nil, fmt.Errorf("server: database pool is required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMultiLevelCache(nil)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem(loc)
	}
	tmpl, err := web.Templates(loc)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	db := deps.Pool.DB
	users := repositories.NewUserRepository(db)
	projects := repositories.NewProjectRepository(db)
	tasks := repositories.NewTaskRepository(db)
	sessions := repositories.NewSessionRepository(db)

	insights := services.NewCachedInsightService(services.NewInsightService(tasks, deps.Clock), deps.Cache, deps.Clock, cfg.Cache.InsightTTL)
	accountSvc := services.NewAccountService(users, deps.Clock, cfg.Auth.BCryptCost, cfg.Auth.MinPasswordLength)
	sessionSvc := services.NewSessionService(sessions, users, deps.Clock, cfg.Session.Secret, cfg.Session.TTL)
	projectSvc := services.NewProjectService(projects, deps.Clock, insights)
	taskSvc := services.NewTaskService(tasks, projects, deps.Clock, insights)
	querySvc := services.NewQueryService(projects, tasks, deps.Clock)

	monitor := monitoring.NewMonitor()
	monitor.RegisterHealthCheck("database", deps.Pool.HealthContext)
	monitor.RegisterHealthCheck("cache", deps.Cache.Health)
	monitor.RegisterStats("database", deps.Pool.Stats)
	monitor.RegisterStats("insights", insights.Stats)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitor.Middleware())
	router.Use(middleware.SessionAuth(sessionSvc, cfg.Session.CookieName))
	router.Use(handlers.Flashes(cfg.Session.Secure))

	s := &Server{Router: router, Monitor: monitor, Insights: insights, config: cfg}
	s.routes(routeHandlers{
		auth:    handlers.NewAuthHandler(accountSvc, sessionSvc, handlers.CookieConfig{Name: cfg.Session.CookieName, TTL: cfg.Session.TTL, Secure: cfg.Session.Secure}),
		account: handlers.NewAccountHandler(accountSvc, cfg.Auth.MinPasswordLength),
		project: handlers.NewProjectHandler(projectSvc, taskSvc, querySvc),
		task:    handlers.NewTaskHandler(taskSvc),
		view:    handlers.NewViewHandler(querySvc, insights),
		creator: handlers.NewCreatorHandler(querySvc, projectSvc, taskSvc),
	})
	return s, nil
}

// corsMiddleware allows configured origins to call the JSON endpoints.
// Returns nil when no origin is configured.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	if len(s.config.CORS.AllowedOrigins) == 0 {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     s.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// HTTPServer wraps the router with the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.GetServerAddr(),
		Handler:      s.Router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
}

// Check runs every registered health check once.
func (s *Server) Check(ctx context.Context) error {
	for _, check := range s.Monitor.RunHealthChecks(ctx) {
		if check.Status != "healthy" {
			return fmt.Errorf("%s: %s", check.Name, check.Message)
		}
	}
	return nil
}
