package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
)

const (
	defaultPyroscopeServer      = "http://pyroscope:4040"
	defaultPyroscopeEnvironment = "development"
)

// PyroscopeProfiler wraps a running Pyroscope profiler.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// PyroscopeConfig is read from the environment:
//   - ENABLE_CONTINUOUS_PROFILING must be "true" to enable
//   - PYROSCOPE_SERVER_URL (default http://pyroscope:4040)
//   - PYROSCOPE_ENVIRONMENT (default development)
type PyroscopeConfig struct {
	Enabled     bool
	ServerURL   string
	Environment string
}

// PyroscopeConfigFromEnv reads PyroscopeConfig with defaults applied.
func PyroscopeConfigFromEnv() PyroscopeConfig {
	cfg := PyroscopeConfig{
		Enabled:     os.Getenv("ENABLE_CONTINUOUS_PROFILING") == enabledValue,
		ServerURL:   os.Getenv("PYROSCOPE_SERVER_URL"),
		Environment: os.Getenv("PYROSCOPE_ENVIRONMENT"),
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultPyroscopeServer
	}
	if cfg.Environment == "" {
		cfg.Environment = defaultPyroscopeEnvironment
	}
	return cfg
}

// StartPyroscope starts continuous profiling for serviceName.
// It returns (nil, nil) when continuous profiling is disabled.
func StartPyroscope(serviceName, version string, log logger.Logger) (*PyroscopeProfiler, error) {
	cfg := PyroscopeConfigFromEnv()
	if !cfg.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	if version == "" {
		version = "unknown"
	}

	appName := "north-cloud." + serviceName
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   cfg.ServerURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": cfg.Environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", appName),
		logger.String("server", cfg.ServerURL),
		logger.String("environment", cfg.Environment),
	)

	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop flushes and stops the profiler. It is safe on a nil receiver.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
