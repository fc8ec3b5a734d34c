// Package framecheck provides a Go library for post-production video
// validation.
//
// Framecheck inspects container and stream metadata with ffprobe,
// samples decoded content through ffmpeg filter graphs to detect black
// frames, frozen frames, and frame rate jitter, and cross-checks
// declared properties under tolerance thresholds. The result is a
// structured pass/fail report with numeric metrics.
//
// Basic usage:
//
//	checker, err := framecheck.New(
//	    framecheck.WithBitrateTolerance(0.25),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := checker.ValidateFile(ctx, "final.mp4")
//	if !result.IsValid {
//	    for _, issue := range result.Issues {
//	        fmt.Println(issue)
//	    }
//	}
package framecheck

import (
	"context"
	"fmt"

	"github.com/five82/framecheck/internal/config"
	"github.com/five82/framecheck/internal/discovery"
	"github.com/five82/framecheck/internal/logging"
	"github.com/five82/framecheck/internal/reporter"
	"github.com/five82/framecheck/internal/store"
	"github.com/five82/framecheck/internal/util"
	"github.com/five82/framecheck/internal/validation"
)

// Re-export core types for library consumers.
type (
	// Result is the report produced by one validation run.
	Result = validation.Result

	// MetricsStore accepts JSON metrics documents keyed by name.
	MetricsStore = store.MetricsStore

	// Reporter receives validation progress and outcome events.
	Reporter = reporter.Reporter

	// Logger is the structured logger used throughout framecheck.
	Logger = logging.Logger
)

// NewTerminalReporter creates a reporter that prints human-friendly
// output to the terminal.
func NewTerminalReporter() Reporter {
	return reporter.NewTerminalReporter()
}

// NewJSONReporter creates a reporter that emits NDJSON events to stdout.
func NewJSONReporter() Reporter {
	return reporter.NewJSONReporter()
}

// NewCompositeReporter creates a reporter that fans every event out to
// all given reporters, e.g. terminal output alongside an NDJSON stream.
func NewCompositeReporter(reporters ...Reporter) Reporter {
	return reporter.NewCompositeReporter(reporters...)
}

// NewDirStore creates a metrics store backed by a local directory.
func NewDirStore(root string) MetricsStore {
	return store.NewDirStore(root)
}

// NewS3Store creates a metrics store backed by an S3 bucket.
func NewS3Store(ctx context.Context, bucket, region string) (MetricsStore, error) {
	return store.NewS3Store(ctx, bucket, region)
}

// Validator is the main entry point for video validation.
type Validator struct {
	cfg     *config.Config
	metrics store.MetricsStore
	logger  *logging.Logger
	rep     reporter.Reporter
	inner   *validation.Validator
}

// BatchResult contains the result of a batch validation run.
type BatchResult struct {
	Results     []*Result
	TotalFiles  int
	ValidCount  int
	TotalIssues int
}

// Option configures the validator.
type Option func(*Validator)

// New creates a new Validator with the given options.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		cfg:    config.NewConfig(),
		logger: logging.Global(),
		rep:    reporter.NullReporter{},
	}

	for _, opt := range opts {
		opt(v)
	}

	if err := v.cfg.Validate(); err != nil {
		return nil, err
	}

	v.inner = validation.New(v.cfg, v.metrics, v.rep, v.logger)
	return v, nil
}

// WithBitrateTolerance sets the relative tolerance for bitrate
// cross-checks. Default 0.20.
func WithBitrateTolerance(tolerance float64) Option {
	return func(v *Validator) {
		v.cfg.BitrateTolerance = tolerance
	}
}

// WithTimescaleTolerance sets the relative tolerance for the timescale
// cross-check. Default 0.10.
func WithTimescaleTolerance(tolerance float64) Option {
	return func(v *Validator) {
		v.cfg.TimescaleTolerance = tolerance
	}
}

// WithConsistencyThreshold sets the minimum acceptable frame rate
// consistency percentage. Default 95.
func WithConsistencyThreshold(threshold float64) Option {
	return func(v *Validator) {
		v.cfg.ConsistencyThreshold = threshold
	}
}

// WithMinDuration sets the minimum acceptable duration in seconds.
// Default 0.1.
func WithMinDuration(seconds float64) Option {
	return func(v *Validator) {
		v.cfg.MinDurationSecs = seconds
	}
}

// WithMinFrameCount sets the minimum acceptable frame count. Default 1.
func WithMinFrameCount(frames int) Option {
	return func(v *Validator) {
		v.cfg.MinFrameCount = frames
	}
}

// WithMetricsStore sets the store that receives per-run metrics
// documents. Without one, metrics are not persisted.
func WithMetricsStore(s MetricsStore) Option {
	return func(v *Validator) {
		v.metrics = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithReporter sets the reporter that receives progress and outcome
// events.
func WithReporter(r Reporter) Option {
	return func(v *Validator) {
		v.rep = r
	}
}

// ValidateFile validates a single video file. It never returns an
// error: every failure mode resolves to a Result with IsValid=false.
func (v *Validator) ValidateFile(ctx context.Context, path string) *Result {
	v.rep.FileStarted(path)

	result := v.inner.Validate(ctx, path)

	v.rep.FileSummary(fileSummary(result))
	v.rep.ValidationComplete(reporter.ValidationSummary{
		Path:    path,
		IsValid: result.IsValid,
		Issues:  result.Issues,
	})

	return result
}

// ValidateDir validates every video file found in a directory and
// returns the aggregate result. It errors only when discovery fails.
func (v *Validator) ValidateDir(ctx context.Context, dir string) (*BatchResult, error) {
	files, err := discovery.FindVideoFiles(dir)
	if err != nil {
		v.rep.Error(err.Error())
		return nil, err
	}

	v.rep.BatchStarted(reporter.BatchStartInfo{
		InputDir:   dir,
		TotalFiles: len(files),
	})

	batch := &BatchResult{TotalFiles: len(files)}
	for i, file := range files {
		v.rep.FileProgress(reporter.FileProgressContext{
			Index: i + 1,
			Total: len(files),
			Path:  file,
		})

		result := v.ValidateFile(ctx, file)
		batch.Results = append(batch.Results, result)
		if result.IsValid {
			batch.ValidCount++
		}
		batch.TotalIssues += len(result.Issues)
	}

	v.rep.BatchComplete(reporter.BatchSummary{
		TotalFiles:  batch.TotalFiles,
		ValidCount:  batch.ValidCount,
		TotalIssues: batch.TotalIssues,
	})

	return batch, nil
}

// fileSummary converts a validation result into a reporter summary.
func fileSummary(result *Result) reporter.FileSummary {
	resolution := "unknown"
	if result.Resolution[0] > 0 && result.Resolution[1] > 0 {
		resolution = fmt.Sprintf("%dx%d", result.Resolution[0], result.Resolution[1])
	}

	audio := "none"
	if result.HasAudio {
		channels := 0
		if result.AudioChannels != nil {
			channels = *result.AudioChannels
		}
		sampleRate := 0.0
		if result.AudioSampleRate != nil {
			sampleRate = *result.AudioSampleRate
		}
		audio = fmt.Sprintf("%dch @ %.0f Hz", channels, sampleRate)
	}

	size, _ := util.GetFileSize(result.VideoPath)

	return reporter.FileSummary{
		Path:             result.VideoPath,
		Duration:         result.Duration,
		Resolution:       resolution,
		FPS:              result.FPS,
		SizeBytes:        size,
		AudioDescription: audio,
	}
}
