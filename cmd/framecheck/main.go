// Package main provides the CLI entry point for framecheck.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/framecheck"
	"github.com/five82/framecheck/internal/config"
	"github.com/five82/framecheck/internal/logging"
)

const (
	appName    = "framecheck"
	appVersion = "0.3.0"
)

// errValidationFailed signals a clean run in which at least one file
// failed validation. It maps to exit code 1 without an error banner.
var errValidationFailed = errors.New("validation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Post-production video validation",
		Long:          "Framecheck inspects finished video files for structural defects and metadata inconsistencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}

// validateFlags holds the parsed flags for the validate command.
type validateFlags struct {
	configFile    string
	jsonOutput    bool
	quiet         bool
	verbose       bool
	outputFile    string
	metricsBucket string
	metricsDir    string
	region        string
}

func newValidateCmd() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate <file-or-directory>",
		Short: "Validate video files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "config file (default framecheck.yaml in . or $HOME/.config/framecheck)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "emit NDJSON events instead of terminal output")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "write per-file results to a JSON file")
	cmd.Flags().StringVar(&flags.metricsBucket, "metrics-bucket", "", "S3 bucket for validation metrics")
	cmd.Flags().StringVar(&flags.metricsDir, "metrics-dir", "", "local directory for validation metrics")
	cmd.Flags().StringVar(&flags.region, "region", config.DefaultMetricsRegion, "AWS region for the metrics bucket")

	return cmd
}

// loadSettings layers the config file and environment over the flag
// values. Flags win over file and environment.
func loadSettings(flags *validateFlags) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("bitrate_tolerance", config.DefaultBitrateTolerance)
	v.SetDefault("timescale_tolerance", config.DefaultTimescaleTolerance)
	v.SetDefault("consistency_threshold", config.DefaultConsistencyThreshold)
	v.SetDefault("min_duration", config.DefaultMinDurationSecs)
	v.SetDefault("min_frame_count", config.DefaultMinFrameCount)
	v.SetDefault("metrics_bucket", "")
	v.SetDefault("metrics_region", config.DefaultMetricsRegion)

	v.SetEnvPrefix("FRAMECHECK")
	v.AutomaticEnv()

	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", flags.configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("framecheck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "framecheck"))
	}

	// A missing default config file is fine.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	return v, nil
}

func runValidate(ctx context.Context, path string, flags *validateFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(flags)
	if err != nil {
		return err
	}

	level := logging.LevelWarn
	if flags.verbose {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	var rep framecheck.Reporter
	switch {
	case flags.quiet:
		rep = nil
	case flags.jsonOutput:
		rep = framecheck.NewJSONReporter()
	default:
		rep = framecheck.NewTerminalReporter()
	}

	metrics, err := buildMetricsStore(ctx, flags, settings)
	if err != nil {
		return err
	}

	opts := []framecheck.Option{
		framecheck.WithBitrateTolerance(settings.GetFloat64("bitrate_tolerance")),
		framecheck.WithTimescaleTolerance(settings.GetFloat64("timescale_tolerance")),
		framecheck.WithConsistencyThreshold(settings.GetFloat64("consistency_threshold")),
		framecheck.WithMinDuration(settings.GetFloat64("min_duration")),
		framecheck.WithMinFrameCount(settings.GetInt("min_frame_count")),
	}
	if rep != nil {
		opts = append(opts, framecheck.WithReporter(rep))
	}
	if metrics != nil {
		opts = append(opts, framecheck.WithMetricsStore(metrics))
	}

	checker, err := framecheck.New(opts...)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	var results []*framecheck.Result
	if info.IsDir() {
		batch, err := checker.ValidateDir(ctx, path)
		if err != nil {
			return err
		}
		results = batch.Results
	} else {
		results = []*framecheck.Result{checker.ValidateFile(ctx, path)}
	}

	if flags.outputFile != "" {
		if err := writeResultsFile(flags.outputFile, results); err != nil {
			return err
		}
	}

	for _, result := range results {
		if !result.IsValid {
			return errValidationFailed
		}
	}

	return nil
}

// buildMetricsStore selects the metrics store from flags and settings.
// Flag values take precedence over the config file.
func buildMetricsStore(ctx context.Context, flags *validateFlags, settings *viper.Viper) (framecheck.MetricsStore, error) {
	if flags.metricsDir != "" {
		return framecheck.NewDirStore(flags.metricsDir), nil
	}

	bucket := flags.metricsBucket
	region := flags.region
	if bucket == "" {
		bucket = settings.GetString("metrics_bucket")
		if r := settings.GetString("metrics_region"); r != "" {
			region = r
		}
	}
	if bucket == "" {
		return nil, nil
	}

	return framecheck.NewS3Store(ctx, bucket, region)
}

// writeResultsFile saves per-file results keyed by filename, the shape
// downstream tooling consumes.
func writeResultsFile(path string, results []*framecheck.Result) error {
	out := make(map[string]interface{}, len(results))
	for _, result := range results {
		out[filepath.Base(result.VideoPath)] = map[string]interface{}{
			"is_valid": result.IsValid,
			"issues":   result.Issues,
			"metrics":  result.Metrics,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write results file %s: %w", path, err)
	}

	return nil
}
