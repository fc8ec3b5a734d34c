package analysis

import (
	"strconv"

	"github.com/five82/framecheck/internal/ffprobe"
)

// VideoMetrics contains the basic properties of the first video stream.
// Zero values mean the stream or field was absent.
type VideoMetrics struct {
	FPS        float64
	FrameCount int
	Width      int
	Height     int
	Duration   float64
}

// AnalyzeVideo extracts video stream metrics from probe data.
func AnalyzeVideo(probe *ffprobe.ProbeData) VideoMetrics {
	var metrics VideoMetrics

	video := probe.FirstVideoStream()
	if video == nil {
		return metrics
	}

	metrics.FPS = ffprobe.ParseFrameRate(video.RFrameRate)
	metrics.Width = video.Width
	metrics.Height = video.Height

	if video.Duration != "" {
		if d, err := strconv.ParseFloat(video.Duration, 64); err == nil {
			metrics.Duration = d
		}
	}
	if video.NbFrames != "" {
		if frames, err := strconv.Atoi(video.NbFrames); err == nil {
			metrics.FrameCount = frames
		}
	}

	return metrics
}
