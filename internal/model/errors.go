package model

import "errors"

var (
	// ErrInvalidArtifact is returned when a model artifact fails validation.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrFeatureMismatch is returned when a model's columns do not line up
	// with what the feature extractor produces.
	ErrFeatureMismatch = errors.New("feature mismatch")
)
