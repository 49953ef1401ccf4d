// Package profiling starts the optional pprof and Pyroscope profilers.
package profiling

import (
	"errors"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // served on localhost only
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
)

const (
	defaultPprofPort       = "6060"
	pprofReadHeaderTimeout = 10 * time.Second
	enabledValue           = "true"
)

// PprofEnabled reports whether ENABLE_PROFILING is set to "true".
func PprofEnabled() bool {
	return os.Getenv("ENABLE_PROFILING") == enabledValue
}

// PprofAddr returns the localhost address the pprof server binds to.
// PPROF_PORT overrides the default port 6060.
func PprofAddr() string {
	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = defaultPprofPort
	}
	return "localhost:" + port
}

// StartPprofServer serves the standard /debug/pprof endpoints in the
// background when ENABLE_PROFILING=true. It never blocks.
func StartPprofServer(log logger.Logger) {
	if !PprofEnabled() {
		return
	}

	addr := PprofAddr()
	server := &http.Server{
		Addr:              addr,
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: pprofReadHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server",
			logger.String("address", addr),
			logger.String("profiles", "http://"+addr+"/debug/pprof/"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()
}
