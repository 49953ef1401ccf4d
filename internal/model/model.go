package model

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
)

// scorer turns an encoded row into per-class probabilities.
type scorer interface {
	proba(row []float64) []float64
}

// Model is a compiled, read-only classifier. It is safe for concurrent use.
type Model struct {
	meta    Metadata
	encoder *Encoder
	scorer  scorer
}

// Metadata returns the model's descriptive fields.
func (m *Model) Metadata() Metadata {
	meta := m.meta
	meta.Classes = append([]int(nil), m.meta.Classes...)
	return meta
}

// Columns returns the model's input columns in order.
func (m *Model) Columns() []string {
	return m.encoder.Columns()
}

// PredictProba returns the probability of each class, in class order.
func (m *Model) PredictProba(v features.Vector) ([]float64, error) {
	proba := m.scorer.proba(m.encoder.Encode(v))
	if len(proba) != len(m.meta.Classes) {
		return nil, fmt.Errorf("%w: scorer returned %d probabilities for %d classes",
			ErrFeatureMismatch, len(proba), len(m.meta.Classes))
	}
	return proba, nil
}

// Predict returns the class with the highest probability. Ties go to the
// earlier class.
func (m *Model) Predict(v features.Vector) (int, error) {
	proba, err := m.PredictProba(v)
	if err != nil {
		return 0, err
	}
	return m.meta.Classes[argmax(proba)], nil
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
