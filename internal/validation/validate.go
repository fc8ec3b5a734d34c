package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/five82/framecheck/internal/analysis"
	"github.com/five82/framecheck/internal/config"
	"github.com/five82/framecheck/internal/detect"
	"github.com/five82/framecheck/internal/ffprobe"
	"github.com/five82/framecheck/internal/logging"
	"github.com/five82/framecheck/internal/reporter"
	"github.com/five82/framecheck/internal/store"
	"github.com/five82/framecheck/internal/util"
)

// MediaProber extracts raw container/stream metadata from a file.
// This interface allows validation logic to be tested without ffprobe.
type MediaProber interface {
	Probe(ctx context.Context, path string) (*ffprobe.ProbeData, error)
}

// ProberFunc adapts a function to the MediaProber interface.
type ProberFunc func(ctx context.Context, path string) (*ffprobe.ProbeData, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, path string) (*ffprobe.ProbeData, error) {
	return f(ctx, path)
}

// DefectScanner samples decoded content and counts structural defects.
// This interface allows validation logic to be tested without ffmpeg.
type DefectScanner interface {
	// CountBlackFrames returns the number of black frame runs.
	CountBlackFrames(ctx context.Context, path string) int

	// CountFrozenFrames returns the number of frozen frame runs.
	CountFrozenFrames(ctx context.Context, path string) int

	// FrameRateConsistency returns the percentage of frame intervals
	// within tolerance, and whether a measurement was taken.
	FrameRateConsistency(ctx context.Context, path string, frameCount int, targetFPS float64) (float64, bool)
}

// Validator validates video files for quality and integrity.
//
// A Validator holds no per-call state; the issue list is scoped to each
// Validate invocation, so one Validator can serve concurrent calls.
type Validator struct {
	cfg     *config.Config
	prober  MediaProber
	scanner DefectScanner
	metrics store.MetricsStore
	rep     reporter.Reporter
	logger  *logging.Logger
}

// New creates a Validator backed by the system ffprobe and ffmpeg
// binaries. A nil metrics store disables persistence; a nil reporter
// discards events.
func New(cfg *config.Config, metrics store.MetricsStore, rep reporter.Reporter, logger *logging.Logger) *Validator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Validator{
		cfg:     cfg,
		prober:  ProberFunc(ffprobe.Probe),
		scanner: detect.NewDetector(cfg, logger),
		metrics: metrics,
		rep:     rep,
		logger:  logger,
	}
}

// NewWithTools creates a Validator with custom probe and scan
// implementations. Used by tests and callers embedding their own tools.
func NewWithTools(prober MediaProber, scanner DefectScanner, cfg *config.Config, metrics store.MetricsStore, rep reporter.Reporter, logger *logging.Logger) *Validator {
	v := New(cfg, metrics, rep, logger)
	if prober != nil {
		v.prober = prober
	}
	if scanner != nil {
		v.scanner = scanner
	}
	return v
}

// Validate runs every applicable check against the file in one pass and
// returns a complete report. It never returns an error: all failure
// modes, including panics from any stage, resolve to a Result with
// IsValid=false and a "Validation error:" issue.
func (v *Validator) Validate(ctx context.Context, path string) (result *Result) {
	timestamp := time.Now().UTC()
	metrics := make(map[string]float64)

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation panicked", "path", path, "panic", r)
			result = &Result{
				Issues:    []string{fmt.Sprintf("Validation error: %v", r)},
				Metrics:   metrics,
				Timestamp: timestamp,
				VideoPath: path,
			}
		}
	}()

	probe, err := v.prober.Probe(ctx, path)
	if err != nil {
		v.logger.Warn("probe failed", "path", path, "error", err)
		return &Result{
			Issues:    []string{fmt.Sprintf("Validation error: %v", err)},
			Metrics:   metrics,
			Timestamp: timestamp,
			VideoPath: path,
		}
	}

	container := analysis.AnalyzeContainer(probe)
	video := analysis.AnalyzeVideo(probe)
	audio := analysis.AnalyzeAudio(probe)

	issues := []string{}
	issues = append(issues, v.checkBasics(video)...)

	blackFrames := v.scanner.CountBlackFrames(ctx, path)
	if blackFrames > 0 {
		issues = append(issues, fmt.Sprintf("Found %d black frames", blackFrames))
	}

	frozenFrames := v.scanner.CountFrozenFrames(ctx, path)
	if frozenFrames > 0 {
		issues = append(issues, fmt.Sprintf("Found %d frozen frames", frozenFrames))
	}

	if !audio.HasAudio {
		issues = append(issues, "No audio track found")
	}

	// Independently computed bitrate in bits/sec from the file itself,
	// free of any declared metadata.
	var bitrate float64
	if video.Duration > 0 {
		if size, err := util.GetFileSize(path); err == nil {
			bitrate = float64(size) * 8 / video.Duration
		}
	}

	consistency, measured := v.scanner.FrameRateConsistency(ctx, path, video.FrameCount, video.FPS)
	if measured && consistency < v.cfg.ConsistencyThreshold {
		issues = append(issues, fmt.Sprintf("Frame rate inconsistency detected: %.1f%% of frames at expected intervals", consistency))
	}

	// Declared bitrates are in kbps; convert before comparing.
	issues = append(issues, crossCheck(container, bitrate/1000, v.cfg)...)

	metrics[MetricFPS] = video.FPS
	metrics[MetricFrameCount] = float64(video.FrameCount)
	metrics[MetricDuration] = video.Duration
	metrics[MetricWidth] = float64(video.Width)
	metrics[MetricHeight] = float64(video.Height)
	metrics[MetricBitrate] = bitrate
	metrics[MetricBlackFrames] = float64(blackFrames)
	metrics[MetricFrozenFrames] = float64(frozenFrames)
	metrics[MetricHasAudio] = boolToFloat(audio.HasAudio)
	metrics[MetricAudioSampleRate] = audio.SampleRate
	metrics[MetricAudioChannels] = float64(audio.Channels)
	metrics[MetricContainerTimescale] = intOrZero(container.ContainerTimescale)
	metrics[MetricVideoTimescale] = intOrZero(container.VideoTimescale)
	metrics[MetricContainerBitrate] = floatOrZero(container.ContainerBitrate)
	metrics[MetricStreamBitrate] = floatOrZero(container.StreamBitrate)
	metrics[MetricFrameRateConsistency] = consistency

	v.persistMetrics(ctx, path, metrics, timestamp)

	result = &Result{
		IsValid:              len(issues) == 0,
		Issues:               issues,
		Metrics:              metrics,
		Timestamp:            timestamp,
		VideoPath:            path,
		Duration:             video.Duration,
		FrameCount:           video.FrameCount,
		FPS:                  video.FPS,
		Resolution:           [2]int{video.Width, video.Height},
		Bitrate:              bitrate,
		HasAudio:             audio.HasAudio,
		ContainerTimescale:   container.ContainerTimescale,
		VideoTimescale:       container.VideoTimescale,
		ContainerBitrate:     container.ContainerBitrate,
		StreamBitrate:        container.StreamBitrate,
		FrameRateConsistency: &consistency,
	}
	if audio.HasAudio {
		result.AudioSampleRate = &audio.SampleRate
		result.AudioChannels = &audio.Channels
	}

	return result
}

// checkBasics verifies minimum requirements for a playable video.
func (v *Validator) checkBasics(video analysis.VideoMetrics) []string {
	var issues []string

	if video.FPS <= 0 {
		issues = append(issues, "Invalid frame rate")
	}
	if video.FrameCount < v.cfg.MinFrameCount {
		issues = append(issues, fmt.Sprintf("Frame count (%d) below minimum (%d)", video.FrameCount, v.cfg.MinFrameCount))
	}
	if video.Width <= 0 || video.Height <= 0 {
		issues = append(issues, "Invalid resolution")
	}
	if video.Duration < v.cfg.MinDurationSecs {
		issues = append(issues, fmt.Sprintf("Duration (%.2fs) below minimum (%gs)", video.Duration, v.cfg.MinDurationSecs))
	}

	return issues
}

// persistMetrics uploads the metrics document to the configured store.
// Persistence failures are reported as warnings and never affect the
// result.
func (v *Validator) persistMetrics(ctx context.Context, path string, metrics map[string]float64, ts time.Time) {
	if v.metrics == nil {
		return
	}

	payload, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		v.logger.Warn("failed to encode metrics", "path", path, "error", err)
		v.rep.Warning(fmt.Sprintf("Could not encode metrics for %s: %v", path, err))
		return
	}

	key := store.MetricsKey(ts, path)
	if err := v.metrics.Put(ctx, key, payload); err != nil {
		v.logger.Warn("failed to persist metrics", "path", path, "key", key, "error", err)
		v.rep.Warning(fmt.Sprintf("Could not persist metrics for %s: %v", path, err))
		return
	}

	v.logger.Debug("metrics persisted", "key", key)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func intOrZero(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
