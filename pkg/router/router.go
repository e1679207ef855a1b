package router

import (
	"supportgenie/backend/internal/api"
	"supportgenie/backend/pkg/config"
	"supportgenie/backend/pkg/di"
	"supportgenie/backend/pkg/errors"
	"supportgenie/backend/pkg/health"
	"supportgenie/backend/pkg/logger"
	"supportgenie/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Checker   *health.Checker
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container, checker *health.Checker) *Router {
	logger.SetGlobal(container.Logger)

	cfg := config.Get()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger first so every request gets a scoped logger, then error
	// formatting and panic recovery, then rate limiting.
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Checker:   checker,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	chatController := api.NewChatController(r.Container.ChatService)
	knowledgeController := api.NewKnowledgeController(r.Container.KnowledgeService)
	analyticsController := api.NewAnalyticsController(r.Container.AnalyticsService)

	v1 := r.Engine.Group("/api/v1")
	{
		v1.GET("/health", gin.WrapF(r.Checker.HTTPHandler()))

		chatController.RegisterRoutesV1(v1)
		knowledgeController.RegisterRoutesV1(v1)
		analyticsController.RegisterRoutesV1(v1)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
