package analysis

import (
	"strconv"

	"github.com/five82/framecheck/internal/ffprobe"
)

// AudioMetrics describes the first audio stream, if any.
type AudioMetrics struct {
	HasAudio   bool
	SampleRate float64
	Channels   int
}

// AnalyzeAudio extracts audio stream metrics from probe data.
func AnalyzeAudio(probe *ffprobe.ProbeData) AudioMetrics {
	var metrics AudioMetrics

	audio := probe.FirstAudioStream()
	if audio == nil {
		return metrics
	}

	metrics.HasAudio = true
	metrics.Channels = audio.Channels

	if audio.SampleRate != "" {
		if rate, err := strconv.ParseFloat(audio.SampleRate, 64); err == nil {
			metrics.SampleRate = rate
		}
	}

	return metrics
}
