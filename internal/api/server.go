package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/config"
	infragin "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// NewServer creates a new HTTP server. modelCheck reports the loaded
// model on /health.
func NewServer(
	routes Routes,
	modelCheck infragin.HealthChecker,
	cfg *config.Config,
	log infralogger.Logger,
) *infragin.Server {
	if !cfg.Metrics.IsEnabled() {
		routes.MetricsPath = ""
	} else if routes.MetricsPath == "" {
		routes.MetricsPath = cfg.Metrics.Path
	}
	routes.RateLimit = RateLimit{}
	if cfg.RateLimit.IsEnabled() {
		routes.RateLimit = RateLimit{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			IdleTTL:           cfg.RateLimit.IdleTTL,
		}
	}

	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithShutdownTimeout(cfg.Service.ShutdownTimeout).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, routes)
		})

	if len(cfg.Service.CORSOrigins) > 0 {
		builder = builder.WithCORSOrigins(cfg.Service.CORSOrigins)
	}
	if modelCheck != nil {
		builder = builder.WithHealthCheck("model", modelCheck)
	}

	return builder.Build()
}
