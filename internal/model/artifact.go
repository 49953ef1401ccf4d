// Package model loads the persisted phishing classifier and scores
// feature vectors with it.
//
// An artifact is a JSON document exported from the training pipeline:
//
//	{
//	  "name": "phishing-url",
//	  "version": "2024.06",
//	  "kind": "logistic_regression",
//	  "classes": [0, 1],
//	  "features": ["url_length", "num_special_chars", "suffix_com", ...],
//	  "logistic": {"intercept": -2.1, "coefficients": [0.03, 0.11, -0.4, ...]}
//	}
//
// Random forests use "kind": "random_forest" and a "forest" object holding
// scikit-learn style node arrays per tree.
package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind names a supported estimator.
type Kind string

const (
	KindLogisticRegression Kind = "logistic_regression"
	KindRandomForest       Kind = "random_forest"
)

// Class values. The positive class is always the last one.
const (
	ClassLegitimate = 0
	ClassPhishing   = 1
)

// Artifact is the on-disk model document.
type Artifact struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Kind     Kind            `json:"kind"`
	Classes  []int           `json:"classes"`
	Features []string        `json:"features"`
	Logistic *LogisticParams `json:"logistic,omitempty"`
	Forest   *ForestParams   `json:"forest,omitempty"`
}

// Metadata describes a loaded model.
type Metadata struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Kind     Kind   `json:"kind"`
	Classes  []int  `json:"classes"`
	Features int    `json:"features"`
}

// Load reads, validates and compiles the artifact at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// Parse validates and compiles an artifact document.
func Parse(data []byte) (*Model, error) {
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return New(art)
}

// New validates art and builds a ready-to-score Model.
func New(art Artifact) (*Model, error) {
	if err := validateClasses(art.Classes); err != nil {
		return nil, err
	}

	enc, err := NewEncoder(art.Features)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	var s scorer
	switch art.Kind {
	case KindLogisticRegression:
		s, err = newLogistic(art.Logistic, enc.Width())
	case KindRandomForest:
		s, err = newForest(art.Forest, enc.Width(), len(art.Classes))
	default:
		err = fmt.Errorf("unknown kind %q", art.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}

	return &Model{
		meta: Metadata{
			Name:     art.Name,
			Version:  art.Version,
			Kind:     art.Kind,
			Classes:  append([]int(nil), art.Classes...),
			Features: enc.Width(),
		},
		encoder: enc,
		scorer:  s,
	}, nil
}

func validateClasses(classes []int) error {
	if len(classes) != 2 || classes[0] != ClassLegitimate || classes[1] != ClassPhishing {
		return fmt.Errorf("%w: classes must be [%d, %d], got %v",
			ErrInvalidArtifact, ClassLegitimate, ClassPhishing, classes)
	}
	return nil
}
