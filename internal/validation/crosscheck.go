package validation

import (
	"fmt"

	"github.com/five82/framecheck/internal/analysis"
	"github.com/five82/framecheck/internal/config"
)

// relativeDifference returns |a-b| / max(a,b). Callers must ensure at
// least one operand is non-zero.
func relativeDifference(a, b float64) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	larger := a
	if b > a {
		larger = b
	}
	return diff / larger
}

// crossCheck compares declared container properties against each other
// and against the independently computed bitrate. Each check is skipped
// when either operand is absent or zero, so "unknown" never produces a
// mismatch.
func crossCheck(container analysis.ContainerMetrics, computedBitrate float64, cfg *config.Config) []string {
	var issues []string

	if hasInt(container.ContainerTimescale) && hasInt(container.VideoTimescale) {
		diff := relativeDifference(float64(*container.ContainerTimescale), float64(*container.VideoTimescale))
		if diff > cfg.TimescaleTolerance {
			issues = append(issues, fmt.Sprintf("Timescale mismatch: container=%d, video=%d",
				*container.ContainerTimescale, *container.VideoTimescale))
		}
	}

	if hasFloat(container.ContainerBitrate) && hasFloat(container.StreamBitrate) {
		diff := relativeDifference(*container.ContainerBitrate, *container.StreamBitrate)
		if diff > cfg.BitrateTolerance {
			issues = append(issues, fmt.Sprintf("Bitrate mismatch: container=%.1fkbps, stream=%.1fkbps",
				*container.ContainerBitrate, *container.StreamBitrate))
		}
	}

	if hasFloat(container.ContainerBitrate) && computedBitrate != 0 {
		diff := relativeDifference(*container.ContainerBitrate, computedBitrate)
		if diff > cfg.BitrateTolerance {
			issues = append(issues, fmt.Sprintf("Bitrate mismatch: container=%.1fkbps, calculated=%.1fkbps",
				*container.ContainerBitrate, computedBitrate))
		}
	}

	return issues
}

func hasInt(v *int) bool {
	return v != nil && *v != 0
}

func hasFloat(v *float64) bool {
	return v != nil && *v != 0
}
