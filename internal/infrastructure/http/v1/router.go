// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"backoffice/internal/infrastructure/http/v1/handlers"
	"backoffice/internal/infrastructure/http/v1/middleware"
	"backoffice/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// ServiceName names the otel spans
	ServiceName string

	// Logger for request logging
	Logger *logger.Logger

	// Health checks the database for the readiness probe
	Health handlers.Checker

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// MaxBodySize caps request bodies (avatars included); 0 disables it
	MaxBodySize int64

	// MediaDir, when set, is served under MediaPrefix (local avatar storage)
	MediaDir    string
	MediaPrefix string

	Auth       handlers.AuthService
	Companies  handlers.CompanyService
	Activities handlers.ActivityService
	Partners   handlers.PartnerService
	Chart      handlers.ChartService
	Suppliers  handlers.SupplierService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Health)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.MediaDir != "" {
		router.Static(cfg.MediaPrefix, cfg.MediaDir)
	}

	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")
	api.Use(middleware.BodyLimit(cfg.MaxBodySize))

	registerAuthRoutes(api, base, cfg)

	// Everything below requires a bearer token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	registerCompanyRoutes(protected, base, cfg)
	registerChartRoutes(protected, base, cfg)
	registerSupplierRoutes(protected, base, cfg)

	return router
}

func registerAuthRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewAuthHandler(base, cfg.Auth)

	group := api.Group("/auth")
	group.POST("/signup", h.SignUp)
	group.POST("/signin", h.SignIn)

	me := group.Group("/me")
	me.Use(middleware.Auth(cfg.JWTValidator))
	me.GET("", h.Me)
	me.PUT("", h.UpdateMe)
}

func registerCompanyRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	companies := handlers.NewCompanyHandler(base, cfg.Companies)
	activities := handlers.NewActivityHandler(base, cfg.Activities)
	partners := handlers.NewPartnerHandler(base, cfg.Partners)

	group := api.Group("/companies")
	group.GET("", companies.List)
	group.POST("", companies.Create)
	group.GET("/:document", companies.Get)
	group.PUT("/:document", companies.Update)
	group.DELETE("/:document", companies.Delete)

	group.GET("/:document/activities", activities.List)
	group.POST("/:document/activities", activities.Create)
	group.GET("/:document/activities/:id", activities.Get)
	group.PUT("/:document/activities/:id", activities.Update)
	group.DELETE("/:document/activities/:id", activities.Delete)

	group.GET("/:document/partners", partners.List)
	group.POST("/:document/partners", partners.Create)
	group.GET("/:document/partners/:id", partners.Get)
	group.PUT("/:document/partners/:id", partners.Update)
	group.DELETE("/:document/partners/:id", partners.Delete)
}

func registerChartRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewChartHandler(base, cfg.Chart)

	group := api.Group("/chart-of-accounts")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func registerSupplierRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	h := handlers.NewSupplierHandler(base, cfg.Suppliers)

	group := api.Group("/suppliers")
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
