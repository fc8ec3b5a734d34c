// Package analysis derives typed metrics from raw probe metadata.
//
// All extractors are pure functions over ffprobe.ProbeData and never
// fail: a missing or malformed source field yields the field's neutral
// default instead of an error. Container-level fields use pointers so
// "unknown" stays distinguishable from a measured zero.
package analysis

import (
	"strconv"

	"github.com/five82/framecheck/internal/ffprobe"
)

// ContainerMetrics contains container-level properties. Nil means the
// source field was absent.
type ContainerMetrics struct {
	// ContainerBitrate is the container bit rate in kbps.
	ContainerBitrate *float64
	// ContainerTimescale is the video stream's time base denominator.
	ContainerTimescale *int
	// VideoTimescale is the video stream's frame rate fraction denominator.
	VideoTimescale *int
	// StreamBitrate is the video stream bit rate in kbps.
	StreamBitrate *float64
}

// AnalyzeContainer extracts container-level metrics from probe data.
func AnalyzeContainer(probe *ffprobe.ProbeData) ContainerMetrics {
	var metrics ContainerMetrics

	if kbps, ok := parseKbps(probe.Format.BitRate); ok {
		metrics.ContainerBitrate = &kbps
	}

	video := probe.FirstVideoStream()
	if video == nil {
		return metrics
	}

	if den, ok := ffprobe.FractionDenominator(video.TimeBase); ok {
		metrics.ContainerTimescale = &den
	}
	if den, ok := ffprobe.FractionDenominator(video.RFrameRate); ok {
		metrics.VideoTimescale = &den
	}
	if kbps, ok := parseKbps(video.BitRate); ok {
		metrics.StreamBitrate = &kbps
	}

	return metrics
}

// parseKbps converts an ffprobe bit rate string (bits/sec) to kbps.
func parseKbps(bitRate string) (float64, bool) {
	if bitRate == "" {
		return 0, false
	}
	bps, err := strconv.ParseFloat(bitRate, 64)
	if err != nil {
		return 0, false
	}
	return bps / 1000, true
}
