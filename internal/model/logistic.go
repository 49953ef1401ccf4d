package model

import (
	"errors"
	"fmt"
	"math"
)

// LogisticParams are binary logistic regression weights, one coefficient
// per feature column.
type LogisticParams struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type logistic struct {
	intercept    float64
	coefficients []float64
}

func newLogistic(params *LogisticParams, width int) (*logistic, error) {
	if params == nil {
		return nil, errors.New("logistic parameters missing")
	}
	if len(params.Coefficients) != width {
		return nil, fmt.Errorf("%w: %d coefficients for %d columns",
			ErrFeatureMismatch, len(params.Coefficients), width)
	}
	for i, c := range params.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}

	return &logistic{
		intercept:    params.Intercept,
		coefficients: append([]float64(nil), params.Coefficients...),
	}, nil
}

func (l *logistic) proba(row []float64) []float64 {
	z := l.intercept
	for i, x := range row {
		z += l.coefficients[i] * x
	}
	p := sigmoid(z)
	return []float64{1 - p, p}
}

// sigmoid is written in two branches so that large |z| does not overflow.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
