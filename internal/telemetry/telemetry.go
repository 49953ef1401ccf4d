// Package telemetry provides OpenTelemetry instrumentation for the phishing detector.
// It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "phishing-detector"

// Metrics holds all phishing detector Prometheus metrics
type Metrics struct {
	PredictionsTotal    *prometheus.CounterVec
	PredictionFailures  *prometheus.CounterVec
	PredictionDuration  prometheus.Histogram
	ExtractionFallbacks prometheus.Counter
	BatchSize           prometheus.Histogram
	RateLimited         *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry with its own Prometheus registry, so
// several providers can coexist in one process.
func NewProvider() *Provider {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  initMetrics(registry),
		registry: registry,
	}
}

// Registry returns the provider's Prometheus registry.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phishing_predictions_total",
			Help: "Total URLs scored, by predicted label",
		}, []string{"prediction"}),

		PredictionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phishing_prediction_failures_total",
			Help: "Total URLs that could not be scored",
		}, []string{"reason"}),

		PredictionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "phishing_prediction_duration_seconds",
			Help:    "Time to extract features and score a single URL",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),

		ExtractionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "phishing_extraction_fallbacks_total",
			Help: "URLs whose host could not be decomposed into subdomain, domain and suffix",
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "phishing_batch_size",
			Help:    "Number of URLs per batch request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500},
		}),

		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phishing_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		}, []string{"route"}),
	}
}

// RecordPrediction records a successful prediction
func (p *Provider) RecordPrediction(_ context.Context, prediction string, duration time.Duration) {
	p.Metrics.PredictionsTotal.WithLabelValues(prediction).Inc()
	p.Metrics.PredictionDuration.Observe(duration.Seconds())
}

// RecordPredictionFailure records a failed prediction with a short reason code
func (p *Provider) RecordPredictionFailure(_ context.Context, reason string) {
	p.Metrics.PredictionFailures.WithLabelValues(reason).Inc()
}

// RecordExtractionFallback counts a URL that fell back to absent domain parts
func (p *Provider) RecordExtractionFallback(_ context.Context) {
	p.Metrics.ExtractionFallbacks.Inc()
}

// RecordBatchSize records the size of a batch request
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// RecordRateLimited counts a request rejected by the rate limiter
func (p *Provider) RecordRateLimited(route string) {
	p.Metrics.RateLimited.WithLabelValues(route).Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
