package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"jobflow/config"
	"jobflow/internal/catalog"
	"jobflow/internal/database"
	"jobflow/internal/handlers"
	"jobflow/internal/middleware"
	"jobflow/internal/storage"
	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	version     = "1.0.0"
	serviceName = "jobflow-api"
)

// Deps are the long-lived services the router serves from.
type Deps struct {
	Catalog  *catalog.Catalog
	Sessions *storage.Manager
	Chrome   *ui.Registry
	// DB is checked by /ready when set.
	DB *gorm.DB
}

// Server represents the HTTP server
type Server struct {
	Router      *gin.Engine
	RateLimiter *middleware.RateLimitInfo

	config *config.Config
	logger *zap.Logger
	deps   Deps

	// Handlers
	jobsHandler    *handlers.JobsHandler
	searchHandler  *handlers.SearchHandler
	sessionHandler *handlers.SessionHandler
	uiHandler      *handlers.UIHandler
	adminHandler   *handlers.AdminHandler
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger, deps Deps) (*Server, error) {
	// Set Gin mode
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	}

	if deps.Catalog == nil || deps.Sessions == nil || deps.Chrome == nil {
		return nil, fmt.Errorf("server requires a catalog, a session manager and a ui registry")
	}

	// Form tags must exist before the first bind
	if err := validation.RegisterWithGin(cfg.Upload.MaxSize); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	server := &Server{
		Router: gin.New(),
		RateLimiter: middleware.NewRateLimit(
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.Window)*time.Second,
		),
		config: cfg,
		logger: logger,
		deps:   deps,
		jobsHandler: handlers.NewJobsHandler(deps.Catalog, deps.Sessions, deps.Chrome, logger, handlers.JobsOptions{
			PageSize:    cfg.Listing.PageSize,
			SimilarJobs: cfg.Listing.SimilarJobs,
			MaxFileSize: cfg.Upload.MaxSize,
		}),
		searchHandler:  handlers.NewSearchHandler(deps.Sessions, deps.Chrome, logger, cfg.Upload.MaxSize),
		sessionHandler: handlers.NewSessionHandler(deps.Sessions, deps.Catalog, deps.Chrome, logger),
		uiHandler:      handlers.NewUIHandler(deps.Chrome, validation.NewValidator(cfg.Upload.MaxSize), logger),
		adminHandler:   handlers.NewAdminHandler(deps.Catalog, logger, cfg.Catalog.FetchTimeout),
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Basic middleware
	s.Router.Use(middleware.RequestIDMiddleware())
	s.Router.Use(middleware.RecoveryMiddleware(s.logger))
	s.Router.Use(middleware.SecurityHeadersMiddleware())

	// CORS middleware
	s.Router.Use(middleware.CORSMiddleware(
		s.config.CORS.Origins,
		s.config.CORS.Credentials,
	))

	// Every request belongs to a session
	s.Router.Use(middleware.SessionMiddleware(s.config.IsProduction()))

	// Rate limiting middleware
	s.Router.Use(middleware.RateLimitMiddleware(s.RateLimiter, s.logger))

	// Logging middleware
	if s.config.IsDevelopment() {
		s.Router.Use(middleware.DetailedLoggingMiddleware(s.logger, false, false))
	} else {
		s.Router.Use(middleware.LoggingMiddleware(s.logger))
	}
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.Router.GET("/health", s.healthCheck)
	s.Router.HEAD("/health", s.healthCheck)
	s.Router.GET("/ready", s.readinessCheck)
	s.Router.HEAD("/ready", s.readinessCheck)

	// Swagger documentation
	if s.config.IsDevelopment() {
		s.Router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := s.Router.Group("/api/v1")
	{
		// Listing and forms
		v1.GET("/jobs", s.jobsHandler.ListJobs)
		v1.POST("/jobs", s.jobsHandler.PostJob)
		v1.GET("/jobs/:id", s.jobsHandler.GetJob)
		v1.GET("/companies", s.jobsHandler.ListCompanies)
		v1.POST("/applications", s.jobsHandler.Apply)

		v1.POST("/search", s.searchHandler.Search)
		v1.POST("/search/save", s.searchHandler.SaveSearch)

		v1.POST("/validate", s.uiHandler.Validate)

		// Persisted session state
		session := v1.Group("/session")
		{
			session.GET("/theme", s.sessionHandler.GetTheme)
			session.PUT("/theme", s.sessionHandler.SetTheme)
			session.POST("/theme/toggle", s.sessionHandler.ToggleTheme)

			session.GET("/saved-jobs", s.sessionHandler.ListSavedJobs)
			session.POST("/saved-jobs/:id", s.sessionHandler.SaveJob)
			session.DELETE("/saved-jobs/:id", s.sessionHandler.UnsaveJob)
			session.POST("/saved-jobs/:id/toggle", s.sessionHandler.ToggleSavedJob)

			session.GET("/recent-searches", s.sessionHandler.ListRecentSearches)
			session.GET("/saved-searches", s.sessionHandler.ListSavedSearches)
			session.GET("/applications", s.sessionHandler.ListApplications)
			session.GET("/posted-jobs", s.sessionHandler.ListPostedJobs)

			session.GET("/draft", s.sessionHandler.GetDraft)
			session.PUT("/draft", s.sessionHandler.SaveDraft)
			session.DELETE("/draft", s.sessionHandler.ClearDraft)
		}

		// Page chrome
		chrome := v1.Group("/ui")
		{
			chrome.GET("/state", s.uiHandler.State)

			chrome.POST("/modals/:id/open", s.uiHandler.OpenModal)
			chrome.POST("/modals/close", s.uiHandler.CloseModal)
			chrome.POST("/modals/focus", s.uiHandler.FocusModal)
			chrome.POST("/keys", s.uiHandler.HandleKey)

			chrome.GET("/toasts", s.uiHandler.ListToasts)
			chrome.POST("/toasts", s.uiHandler.ShowToast)
			chrome.POST("/toasts/dismiss", s.uiHandler.DismissToast)

			chrome.POST("/nav/toggle", s.uiHandler.ToggleNav)
			chrome.POST("/nav/select", s.uiHandler.SelectNavLink)

			chrome.POST("/search-input", s.uiHandler.SearchInput)
		}

		// Operator routes exist only when a key is configured
		if s.config.Admin.APIKey != "" {
			admin := v1.Group("/admin")
			admin.Use(middleware.APIKeyMiddleware(map[string]string{
				s.config.Admin.APIKey: "admin",
			}))
			{
				admin.GET("/catalog", s.adminHandler.CatalogStatus)
				admin.POST("/catalog/reload", s.adminHandler.ReloadCatalog)
			}
		}
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version,
		"service":   serviceName,
	})
}

// readinessCheck handles readiness check requests
// @Summary Readiness check
// @Description Ready once the catalog has loaded and the database answers
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (s *Server) readinessCheck(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if s.deps.Catalog.Loaded() {
		checks["catalog"] = "loaded"
	} else {
		checks["catalog"] = "not loaded"
		ready = false
	}

	if s.deps.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.IsHealthy(ctx, s.deps.DB); err != nil {
			s.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = "unhealthy"
			ready = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"timestamp": time.Now().UTC(),
			"checks":    checks,
		})
		return
	}

	response := gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"version":   version,
		"service":   serviceName,
		"checks":    checks,
	}
	if s.deps.DB != nil {
		response["database"] = database.GetStats(s.deps.DB)
	}
	c.JSON(http.StatusOK, response)
}
