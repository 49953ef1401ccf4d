package config

import (
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/config"
)

// Default configuration values.
const (
	defaultServiceName  = "phishing-detector"
	defaultServicePort  = 5000
	defaultVersion      = "0.1.0"
	defaultModelPath    = "models/phishing_model.json"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultMetricsPath  = "/metrics"

	defaultMaxBatchSize = 100
	defaultBatchWorkers = 8

	defaultRequestsPerSecond = 20
	defaultBurst             = 40
	defaultLimiterIdleTTL    = 10 * time.Minute

	defaultShutdownTimeout = 30 * time.Second
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Model     ModelConfig     `yaml:"model"`
	Predict   PredictConfig   `yaml:"predict"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"PHISHING_DETECTOR_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"              yaml:"debug"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"           yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig points at the persisted classifier artifact.
type ModelConfig struct {
	Path string `env:"PHISHING_MODEL_PATH" yaml:"path"`
}

// PredictConfig bounds batch scoring.
type PredictConfig struct {
	MaxBatchSize int `yaml:"max_batch_size"`
	BatchWorkers int `yaml:"batch_workers"`
}

// RateLimitConfig holds per-client rate limiting configuration. It is off
// unless enabled, so /predict only answers 200, 400 or 500 by default.
type RateLimitConfig struct {
	Enabled           bool          `env:"RATE_LIMIT_ENABLED" yaml:"enabled"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	IdleTTL           time.Duration `yaml:"idle_ttl"`
}

// IsEnabled reports whether rate limiting is on.
func (r *RateLimitConfig) IsEnabled() bool {
	return r.Enabled
}

// MetricsConfig holds Prometheus exposition configuration.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// IsEnabled reports whether /metrics is served.
func (m *MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	if cfg.Model.Path == "" {
		cfg.Model.Path = defaultModelPath
	}
	setPredictDefaults(&cfg.Predict)
	setRateLimitDefaults(&cfg.RateLimit)
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
	if svc.ShutdownTimeout == 0 {
		svc.ShutdownTimeout = defaultShutdownTimeout
	}
}

// setPredictDefaults applies default values to PredictConfig.
func setPredictDefaults(p *PredictConfig) {
	if p.MaxBatchSize == 0 {
		p.MaxBatchSize = defaultMaxBatchSize
	}
	if p.BatchWorkers == 0 {
		p.BatchWorkers = defaultBatchWorkers
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.RequestsPerSecond == 0 {
		rl.RequestsPerSecond = defaultRequestsPerSecond
	}
	if rl.Burst == 0 {
		rl.Burst = defaultBurst
	}
	if rl.IdleTTL == 0 {
		rl.IdleTTL = defaultLimiterIdleTTL
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("model.path", c.Model.Path); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("predict.max_batch_size", c.Predict.MaxBatchSize); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("predict.batch_workers", c.Predict.BatchWorkers); err != nil {
		return err
	}
	if c.RateLimit.IsEnabled() {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return &infraconfig.ValidationError{
				Field:   "rate_limit.requests_per_second",
				Message: "must be greater than 0",
			}
		}
		if err := infraconfig.ValidatePositive("rate_limit.burst", c.RateLimit.Burst); err != nil {
			return err
		}
	}
	if err := infraconfig.ValidateLogLevel("logging.level", c.Logging.Level); err != nil {
		return err
	}
	return infraconfig.ValidateLogFormat("logging.format", c.Logging.Format)
}
