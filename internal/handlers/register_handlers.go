package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/zayyadi/paroll-sub000/cmd/docs"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/middleware"
	"github.com/zayyadi/paroll-sub000/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.AppConfig,
	services *portssvc.ServiceContainer,
) {
	registerHomeRoutes(r)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.AppConfig,
	service *portssvc.ServiceContainer,
) {
	ipLimiter, _ := middleware.NewIPRateLimiter(cfg.RateLimit, "100-M")

	// Apply AuthMiddleware and the shared rate limit to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RateLimit(ipLimiter))

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, service.User)
	registerAccountRoutes(v1, service.Account)
	registerFiscalRoutes(v1, service.Fiscal)
	registerJournalRoutes(v1, service.Journal)
	registerReversalRoutes(v1, service.Reversal)
	registerReportingRoutes(v1, service.Reporting)
	registerAuditRoutes(v1, service.Audit)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.AppConfig) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
