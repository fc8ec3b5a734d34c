package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidTolerance indicates a relative tolerance outside [0,1).
	ErrInvalidTolerance = errors.New("invalid tolerance")

	// ErrInvalidThreshold indicates a threshold outside its valid range.
	ErrInvalidThreshold = errors.New("invalid threshold")
)
