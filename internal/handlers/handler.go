package handlers

import (
	"time"

	"fermentation_dashboard/internal/logger"
	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	wsInterval time.Duration
}

type Option func(*Handler)

// WithWSInterval sets how often /ws resends the whole dashboard when
// nothing changed.
func WithWSInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.wsInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, wsInterval: defaultInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.index)
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// redraw push, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/dashboard", h.getDashboard)
		api.GET("/status", h.getStatus)
		api.POST("/refresh", h.refresh)
		h.registerChartRoutes(api)
		h.registerSessionRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerChartRoutes(api *gin.RouterGroup) {
	charts := api.Group("/charts")
	{
		charts.GET("/:id", h.getChart)
		charts.GET("/:id/png", h.getChartPNG)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.GET("", h.listSessions)
		// Body example: {"name":"Rye sourdough","notes":"80% hydration"}
		sessions.POST("", h.createSession)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}
