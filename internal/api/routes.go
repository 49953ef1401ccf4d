package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/metrics"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/handler"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/middleware"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/telemetry"
)

// RateLimit configures the limiter on scoring routes. A zero value
// disables it.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
	IdleTTL           time.Duration
}

// Routes bundles everything SetupRoutes registers.
type Routes struct {
	Predict     *handler.PredictHandler
	Model       *handler.ModelHandler
	Telemetry   *telemetry.Provider
	MetricsPath string // empty disables /metrics
	RateLimit   RateLimit
	// Done stops background goroutines started by middleware.
	Done <-chan struct{}
}

// SetupRoutes configures all API routes.
// Health routes are registered by the infrastructure gin builder.
func SetupRoutes(router *gin.Engine, routes Routes) {
	if routes.MetricsPath != "" {
		router.Use(metrics.NewHTTPMetrics(routes.Telemetry.Registry(), "phishing").Middleware())
	}

	router.GET("/", routes.Predict.Home)
	router.GET("/model", routes.Model.Info)

	if routes.MetricsPath != "" {
		router.GET(routes.MetricsPath, gin.WrapH(routes.Telemetry.Handler()))
	}

	scoring := router.Group("")
	if routes.RateLimit.RequestsPerSecond > 0 {
		scoring.Use(middleware.RateLimiter(
			routes.RateLimit.RequestsPerSecond,
			routes.RateLimit.Burst,
			routes.RateLimit.IdleTTL,
			routes.Done,
			func(c *gin.Context) { routes.Telemetry.RecordRateLimited(c.FullPath()) },
		))
	}
	scoring.POST("/predict", routes.Predict.Predict)
	scoring.POST("/predict/batch", routes.Predict.PredictBatch)
	scoring.POST("/features", routes.Predict.Features)
}
