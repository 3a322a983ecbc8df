package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"stream-ingest-api/internal/config"
	"stream-ingest-api/internal/ingest"
	"stream-ingest-api/internal/middleware"
)

// StreamStatus reports on the delivery stream behind the ingestion routes
type StreamStatus interface {
	Name() string
	IsHealthy() bool
}

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Events    *ingest.Normalizer
	Telemetry *ingest.Normalizer
	Stream    StreamStatus
	Gatherer  prometheus.Gatherer
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Deployment  string    `json:"deployment"`
	Stream      string    `json:"stream"`
	StreamReady bool      `json:"stream_ready"`
	Timestamp   time.Time `json:"timestamp"`
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// @Summary Health check
	// @Tags operations
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Router /health [get]
	router.GET("/health", func(c *gin.Context) {
		resp := HealthResponse{
			Status:     "healthy",
			Service:    "stream-ingest-api",
			Deployment: config.GetDeploymentMode(),
			Timestamp:  time.Now().UTC(),
		}
		if cfg.Stream != nil {
			resp.Stream = cfg.Stream.Name()
			resp.StreamReady = cfg.Stream.IsHealthy()
		}
		c.JSON(http.StatusOK, resp)
	})

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	ingestRoutes := router.Group("/ingest")
	{
		if cfg.Events != nil {
			events := NewIngestHandler(cfg.Events)
			ingestRoutes.POST("/events", events.Events)
			ingestRoutes.OPTIONS("/events", events.Events)
		}
		if cfg.Telemetry != nil {
			telemetry := NewIngestHandler(cfg.Telemetry)
			ingestRoutes.POST("/telemetry", telemetry.Telemetry)
			ingestRoutes.OPTIONS("/telemetry", telemetry.Telemetry)
		}
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.Recovery())

	// Request ID
	router.Use(middleware.RequestID())

	router.Use(middleware.CORS(cfg.Ingest.AllowOrigin))
	router.Use(middleware.SecurityHeaders())

	router.Use(middleware.RequestSizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	// Structured logging
	router.Use(middleware.StructuredLogger())

	// Log requests over 1 second
	router.Use(middleware.PerformanceMonitor(time.Second))
}
