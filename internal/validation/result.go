// Package validation inspects finished video files for structural
// defects and metadata inconsistencies.
package validation

import "time"

// Result is the immutable report produced by one validation run.
// IsValid holds exactly when Issues is empty. Metrics is always
// non-nil; it is empty only when the file could not be probed at all.
type Result struct {
	IsValid   bool               `json:"is_valid"`
	Issues    []string           `json:"issues"`
	Metrics   map[string]float64 `json:"metrics"`
	Timestamp time.Time          `json:"timestamp"`
	VideoPath string             `json:"video_path"`

	Duration   float64 `json:"duration"`
	FrameCount int     `json:"frame_count"`
	FPS        float64 `json:"fps"`
	Resolution [2]int  `json:"resolution"`
	Bitrate    float64 `json:"bitrate"`
	HasAudio   bool    `json:"has_audio"`

	// Optional fields: nil means the value could not be determined.
	AudioSampleRate      *float64 `json:"audio_sample_rate"`
	AudioChannels        *int     `json:"audio_channels"`
	ContainerTimescale   *int     `json:"container_timescale"`
	VideoTimescale       *int     `json:"video_timescale"`
	ContainerBitrate     *float64 `json:"container_bitrate"`
	StreamBitrate        *float64 `json:"stream_bitrate"`
	FrameRateConsistency *float64 `json:"frame_rate_consistency"`
}

// Metric keys present in every successfully probed result. The key set
// is stable so downstream consumers can rely on the schema.
const (
	MetricFPS                  = "fps"
	MetricFrameCount           = "frame_count"
	MetricDuration             = "duration"
	MetricWidth                = "width"
	MetricHeight               = "height"
	MetricBitrate              = "bitrate"
	MetricBlackFrames          = "black_frames"
	MetricFrozenFrames         = "frozen_frames"
	MetricHasAudio             = "has_audio"
	MetricAudioSampleRate      = "audio_sample_rate"
	MetricAudioChannels        = "audio_channels"
	MetricContainerTimescale   = "container_timescale"
	MetricVideoTimescale       = "video_timescale"
	MetricContainerBitrate     = "container_bitrate"
	MetricStreamBitrate        = "stream_bitrate"
	MetricFrameRateConsistency = "frame_rate_consistency"
)
