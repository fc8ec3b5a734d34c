// Package detect samples decoded video content through FFmpeg filter
// graphs and counts structural defect markers in the diagnostic output.
package detect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/five82/framecheck/internal/config"
	"github.com/five82/framecheck/internal/errors"
	"github.com/five82/framecheck/internal/logging"
)

// FilterRunner executes a video filter graph against a file and returns
// the tool's diagnostic output. This interface allows detector logic to
// be tested without an ffmpeg binary.
type FilterRunner interface {
	Run(ctx context.Context, path, filterGraph string) (string, error)
}

// FFmpegRunner implements FilterRunner by decoding to the null muxer.
type FFmpegRunner struct{}

// Run executes ffmpeg with the given filter graph and discards the
// decoded output. Detection filters report through stderr, so stderr is
// captured and returned as the diagnostic stream.
func (FFmpegRunner) Run(ctx context.Context, path, filterGraph string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-nostats",
		"-i", path,
		"-vf", filterGraph,
		"-an",
		"-f", "null",
		"-",
	)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wrapped := errors.WrapExecError("ffmpeg", err, stderr.String())
		return stderr.String(), errors.NewFilterGraphError("filter graph "+filterGraph+" failed", wrapped)
	}

	return stderr.String(), nil
}

// Detector runs defect detection filter graphs against video files.
//
// Every method is fault tolerant: a failed tool interaction is logged
// and counted as zero defects, never propagated.
type Detector struct {
	runner FilterRunner
	cfg    *config.Config
	logger *logging.Logger
}

// NewDetector creates a Detector backed by the system ffmpeg binary.
func NewDetector(cfg *config.Config, logger *logging.Logger) *Detector {
	return NewDetectorWithRunner(FFmpegRunner{}, cfg, logger)
}

// NewDetectorWithRunner creates a Detector with a custom filter runner.
func NewDetectorWithRunner(runner FilterRunner, cfg *config.Config, logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.Global()
	}
	return &Detector{runner: runner, cfg: cfg, logger: logger}
}

// CountBlackFrames returns the number of black frame runs detected.
// Sampling is restricted to keyframes; a run is black when luminance
// stays below the picture threshold for at least the minimum duration.
func (d *Detector) CountBlackFrames(ctx context.Context, path string) int {
	graph := NewFilterChain().
		Add("select='eq(pict_type,I)'").
		Add(fmt.Sprintf("blackdetect=d=%s:pic_th=%s",
			formatFloat(d.cfg.BlackMinDurationSecs),
			formatFloat(d.cfg.BlackPictureThreshold))).
		Build()

	output, err := d.runner.Run(ctx, path, graph)
	if err != nil {
		d.logger.Warn("black frame detection failed, assuming none", "path", path, "error", err)
		return 0
	}

	return countMarkerLines(output, "blackdetect")
}

// CountFrozenFrames returns the number of frozen frame runs detected.
func (d *Detector) CountFrozenFrames(ctx context.Context, path string) int {
	graph := NewFilterChain().
		Add(fmt.Sprintf("freezedetect=n=%s:d=%s",
			formatFloat(d.cfg.FreezeNoiseTolerance),
			formatFloat(d.cfg.FreezeMinDurationSecs))).
		Build()

	output, err := d.runner.Run(ctx, path, graph)
	if err != nil {
		d.logger.Warn("frozen frame detection failed, assuming none", "path", path, "error", err)
		return 0
	}

	return countMarkerLines(output, "freezedetect")
}

var ptsTimeRegex = regexp.MustCompile(`pts_time:\s*(-?\d+(?:\.\d+)?)`)

// FrameRateConsistency samples the decoded output at the configured
// cadence, recovers presentation timestamps, and returns the percentage
// of successive intervals within tolerance of 1/targetFPS.
//
// The second return value reports whether a measurement was actually
// taken. It is false, with a 0.0 percentage, when frameCount or
// targetFPS is non-positive, when the tool interaction fails, or when
// too few timestamps are recoverable to form an interval.
func (d *Detector) FrameRateConsistency(ctx context.Context, path string, frameCount int, targetFPS float64) (float64, bool) {
	if frameCount <= 0 || targetFPS <= 0 {
		return 0.0, false
	}

	// showinfo is what emits the pts_time lines; the fps filter alone
	// prints nothing per frame.
	graph := NewFilterChain().
		Add(fmt.Sprintf("fps=%d", d.cfg.SampleFPS)).
		Add("showinfo").
		Build()

	output, err := d.runner.Run(ctx, path, graph)
	if err != nil {
		d.logger.Warn("frame rate consistency check failed", "path", path, "error", err)
		return 0.0, false
	}

	timestamps := parseTimestamps(output)
	if len(timestamps) < 2 {
		return 0.0, false
	}

	expected := 1.0 / targetFPS
	allowed := expected * d.cfg.IntervalTolerance

	consistent := 0
	intervals := len(timestamps) - 1
	for i := 1; i < len(timestamps); i++ {
		interval := timestamps[i] - timestamps[i-1]
		diff := interval - expected
		if diff < 0 {
			diff = -diff
		}
		if diff <= allowed {
			consistent++
		}
	}

	return float64(consistent) / float64(intervals) * 100, true
}

// parseTimestamps extracts pts_time values from showinfo output.
func parseTimestamps(output string) []float64 {
	var timestamps []float64
	for _, match := range ptsTimeRegex.FindAllStringSubmatch(output, -1) {
		ts, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps
}

// countMarkerLines counts diagnostic lines containing the given marker.
func countMarkerLines(output, marker string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, marker) {
			count++
		}
	}
	return count
}

// formatFloat renders a float parameter without trailing zeros, the way
// filter arguments are conventionally written.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
