// Package predictor scores URLs: feature extraction, model inference and
// mapping of the model output to a label and confidence.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/domain"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyURL is returned for an empty URL.
var ErrEmptyURL = errors.New("Missing URL") //nolint:staticcheck // surfaced verbatim to clients

// ErrProbabilities is returned when a classifier's probability vector does
// not cover the predicted class.
var ErrProbabilities = errors.New("classifier returned too few probabilities")

const (
	confidenceScale = 1e4
	defaultWorkers  = 8
)

// Classifier is a trained binary model. Class 0 is legitimate; any other
// class is phishing.
type Classifier interface {
	Predict(v features.Vector) (int, error)
	PredictProba(v features.Vector) ([]float64, error)
}

// Service scores URLs against a loaded classifier. It is safe for
// concurrent use.
type Service struct {
	classifier Classifier
	telemetry  *telemetry.Provider
	logger     logger.Logger
	workers    int
}

// NewService creates a Service. workers bounds batch concurrency.
func NewService(classifier Classifier, tp *telemetry.Provider, log logger.Logger, workers int) *Service {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		classifier: classifier,
		telemetry:  tp,
		logger:     log,
		workers:    workers,
	}
}

// Features extracts the feature vector for rawURL.
func (s *Service) Features(ctx context.Context, rawURL string) features.Vector {
	_, span := s.telemetry.StartSpan(ctx, "predictor.extract")
	defer span.End()

	v := features.Extract(rawURL)
	if !v.Decomposed() {
		s.telemetry.RecordExtractionFallback(ctx)
		span.SetAttributes(attribute.Bool("extract.fallback", true))
		s.logger.Debug("URL host could not be decomposed", logger.String("url", rawURL))
	}
	return v
}

// Predict scores one URL.
func (s *Service) Predict(ctx context.Context, rawURL string) (*domain.Prediction, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}

	ctx, span := s.telemetry.StartSpan(ctx, "predictor.predict")
	defer span.End()

	start := time.Now()
	v := s.Features(ctx, rawURL)

	class, err := s.classifier.Predict(v)
	if err != nil {
		return nil, s.fail(ctx, span, "predict", fmt.Errorf("predict: %w", err))
	}
	proba, err := s.classifier.PredictProba(v)
	if err != nil {
		return nil, s.fail(ctx, span, "predict_proba", fmt.Errorf("predict proba: %w", err))
	}

	prediction, err := toPrediction(rawURL, class, proba)
	if err != nil {
		return nil, s.fail(ctx, span, "probabilities", err)
	}

	span.SetAttributes(
		attribute.String("prediction", prediction.Prediction),
		attribute.Float64("confidence", prediction.Confidence),
	)
	s.telemetry.RecordPrediction(ctx, prediction.Prediction, time.Since(start))
	return prediction, nil
}

// PredictBatch scores urls concurrently. Results keep input order and a
// failing URL yields an error item instead of failing the batch.
func (s *Service) PredictBatch(ctx context.Context, urls []string) []domain.BatchItem {
	s.telemetry.RecordBatchSize(len(urls))

	results := make([]domain.BatchItem, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, rawURL := range urls {
		g.Go(func() error {
			results[i] = s.batchItem(gctx, rawURL)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) batchItem(ctx context.Context, rawURL string) domain.BatchItem {
	if err := ctx.Err(); err != nil {
		return domain.BatchItem{URL: rawURL, Error: err.Error()}
	}

	prediction, err := s.Predict(ctx, rawURL)
	if err != nil {
		return domain.BatchItem{URL: rawURL, Error: err.Error()}
	}

	confidence := prediction.Confidence
	return domain.BatchItem{
		URL:        rawURL,
		Prediction: prediction.Prediction,
		Confidence: &confidence,
	}
}

func (s *Service) fail(ctx context.Context, span trace.Span, reason string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	s.telemetry.RecordPredictionFailure(ctx, reason)
	return err
}

// toPrediction maps a class and its probabilities to the client-facing
// record. The confidence is the probability of the predicted class,
// rounded to 4 decimal places.
func toPrediction(rawURL string, class int, proba []float64) (*domain.Prediction, error) {
	label := domain.LabelLegitimate
	index := 0
	if class != 0 {
		label = domain.LabelPhishing
		index = 1
	}
	if index >= len(proba) {
		return nil, fmt.Errorf("%w: got %d", ErrProbabilities, len(proba))
	}

	return &domain.Prediction{
		Confidence: roundConfidence(proba[index]),
		Prediction: label,
		URL:        rawURL,
	}, nil
}

func roundConfidence(p float64) float64 {
	return math.Round(p*confidenceScale) / confidenceScale
}
