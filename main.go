package main

import (
	"fmt"
	"os"

	infraconfig "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/config"
	infragin "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/profiling"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/api"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/config"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/handler"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/model"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/predictor"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Start profilers (if enabled)
	profiling.StartPprofServer(log)
	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", logger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Load the model once; it is read-only from here on
	m, err := model.Load(cfg.Model.Path)
	if err != nil {
		log.Error("Failed to load model", logger.String("path", cfg.Model.Path), logger.Error(err))
		return 1
	}
	meta := m.Metadata()
	log.Info("Model loaded",
		logger.String("path", cfg.Model.Path),
		logger.String("name", meta.Name),
		logger.String("version", meta.Version),
		logger.String("kind", string(meta.Kind)),
		logger.Int("features", meta.Features),
	)

	return runServer(cfg, log, m)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, m *model.Model) int {
	tp := telemetry.NewProvider()
	svc := predictor.NewService(m, tp, log, cfg.Predict.BatchWorkers)

	// done channel signals background goroutines (rate limiter) on shutdown
	done := make(chan struct{})
	defer close(done)

	meta := m.Metadata()
	server := api.NewServer(api.Routes{
		Predict:   handler.NewPredictHandler(svc, log, cfg.Predict.MaxBatchSize),
		Model:     handler.NewModelHandler(m),
		Telemetry: tp,
		Done:      done,
	}, func() infragin.CheckResult {
		return infragin.CheckResult{
			Status:  infragin.HealthStatusHealthy,
			Message: meta.Name + " " + meta.Version,
		}
	}, cfg, log)

	log.Info("Phishing detector starting",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("rate_limit", cfg.RateLimit.IsEnabled()),
		logger.Bool("metrics", cfg.Metrics.IsEnabled()),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Phishing detector exited cleanly")
	return 0
}
