// Package config provides configuration types and defaults for framecheck.
package config

import "fmt"

// Default constants
const (
	// DefaultBitrateTolerance is the allowed relative difference between
	// two bitrate measurements before a mismatch is reported.
	DefaultBitrateTolerance float64 = 0.20

	// DefaultTimescaleTolerance is the allowed relative difference between
	// container and video timescales.
	DefaultTimescaleTolerance float64 = 0.10

	// DefaultMinFrameCount is the minimum number of frames required.
	DefaultMinFrameCount int = 1

	// DefaultMinDurationSecs is the minimum duration in seconds.
	DefaultMinDurationSecs float64 = 0.1

	// DefaultConsistencyThreshold is the minimum percentage of frame
	// intervals that must land within tolerance of the expected interval.
	DefaultConsistencyThreshold float64 = 95.0

	// DefaultIntervalTolerance is the relative tolerance applied to each
	// frame interval against 1/target_fps.
	DefaultIntervalTolerance float64 = 0.10

	// DefaultBlackMinDurationSecs is the minimum run length for a black
	// frame detection.
	DefaultBlackMinDurationSecs float64 = 0.1

	// DefaultBlackPictureThreshold is the blackdetect picture threshold.
	DefaultBlackPictureThreshold float64 = 0.98

	// DefaultFreezeNoiseTolerance is the freezedetect noise tolerance.
	DefaultFreezeNoiseTolerance float64 = 0.003

	// DefaultFreezeMinDurationSecs is the minimum run length for a frozen
	// frame detection.
	DefaultFreezeMinDurationSecs float64 = 2.0

	// DefaultSampleFPS is the fixed sampling cadence used when measuring
	// frame rate consistency.
	DefaultSampleFPS int = 1

	// DefaultMetricsRegion is the AWS region used for the metrics store
	// when none is configured.
	DefaultMetricsRegion string = "us-east-1"
)

// Config holds all tunable parameters for video validation.
//
// The tolerance values were inherited from the legacy service without a
// documented derivation; they are defaults, not verified domain truths.
type Config struct {
	// Cross-validation tolerances
	BitrateTolerance   float64
	TimescaleTolerance float64

	// Basic requirements
	MinFrameCount   int
	MinDurationSecs float64

	// Frame rate consistency
	ConsistencyThreshold float64
	IntervalTolerance    float64
	SampleFPS            int

	// Defect detection
	BlackMinDurationSecs  float64
	BlackPictureThreshold float64
	FreezeNoiseTolerance  float64
	FreezeMinDurationSecs float64
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BitrateTolerance:      DefaultBitrateTolerance,
		TimescaleTolerance:    DefaultTimescaleTolerance,
		MinFrameCount:         DefaultMinFrameCount,
		MinDurationSecs:       DefaultMinDurationSecs,
		ConsistencyThreshold:  DefaultConsistencyThreshold,
		IntervalTolerance:     DefaultIntervalTolerance,
		SampleFPS:             DefaultSampleFPS,
		BlackMinDurationSecs:  DefaultBlackMinDurationSecs,
		BlackPictureThreshold: DefaultBlackPictureThreshold,
		FreezeNoiseTolerance:  DefaultFreezeNoiseTolerance,
		FreezeMinDurationSecs: DefaultFreezeMinDurationSecs,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.BitrateTolerance < 0 || c.BitrateTolerance >= 1 {
		return fmt.Errorf("%w: bitrate tolerance must be in [0,1), got %g", ErrInvalidTolerance, c.BitrateTolerance)
	}

	if c.TimescaleTolerance < 0 || c.TimescaleTolerance >= 1 {
		return fmt.Errorf("%w: timescale tolerance must be in [0,1), got %g", ErrInvalidTolerance, c.TimescaleTolerance)
	}

	if c.IntervalTolerance < 0 || c.IntervalTolerance >= 1 {
		return fmt.Errorf("%w: interval tolerance must be in [0,1), got %g", ErrInvalidTolerance, c.IntervalTolerance)
	}

	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 100 {
		return fmt.Errorf("%w: consistency threshold must be 0-100, got %g", ErrInvalidThreshold, c.ConsistencyThreshold)
	}

	if c.BlackPictureThreshold < 0 || c.BlackPictureThreshold > 1 {
		return fmt.Errorf("%w: black picture threshold must be 0-1, got %g", ErrInvalidThreshold, c.BlackPictureThreshold)
	}

	if c.MinFrameCount < 0 {
		return fmt.Errorf("%w: minimum frame count must be >= 0, got %d", ErrInvalidThreshold, c.MinFrameCount)
	}

	if c.MinDurationSecs < 0 {
		return fmt.Errorf("%w: minimum duration must be >= 0, got %g", ErrInvalidThreshold, c.MinDurationSecs)
	}

	if c.SampleFPS <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0, got %d", ErrInvalidThreshold, c.SampleFPS)
	}

	if c.FreezeMinDurationSecs <= 0 || c.BlackMinDurationSecs <= 0 {
		return fmt.Errorf("%w: detector minimum durations must be > 0", ErrInvalidThreshold)
	}

	return nil
}
