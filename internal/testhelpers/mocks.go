// Package testhelpers provides shared test utilities for the phishing detector.
package testhelpers

import (
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
	"github.com/stretchr/testify/mock"
)

// MockClassifier is a testify mock of predictor.Classifier.
type MockClassifier struct {
	mock.Mock
}

// Predict returns the configured class.
func (m *MockClassifier) Predict(v features.Vector) (int, error) {
	args := m.Called(v)
	return args.Int(0), args.Error(1)
}

// PredictProba returns the configured probabilities.
func (m *MockClassifier) PredictProba(v features.Vector) ([]float64, error) {
	args := m.Called(v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// ScoreAs configures m to return class with proba for any input.
func (m *MockClassifier) ScoreAs(class int, proba ...float64) *MockClassifier {
	m.On("Predict", mock.Anything).Return(class, nil)
	m.On("PredictProba", mock.Anything).Return(proba, nil)
	return m
}

// StubClassifier scores URLs by a fixed rule without a model artifact:
// URLs whose host is an IP literal are phishing.
type StubClassifier struct{}

// Predict returns 1 for IP hosts, otherwise 0.
func (StubClassifier) Predict(v features.Vector) (int, error) {
	return v.IsIP, nil
}

// PredictProba returns [0.1, 0.9] for IP hosts, otherwise [0.8, 0.2].
func (StubClassifier) PredictProba(v features.Vector) ([]float64, error) {
	if v.IsIP == 1 {
		return []float64{0.1, 0.9}, nil
	}
	return []float64{0.8, 0.2}, nil
}
