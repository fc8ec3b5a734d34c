package validation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/framecheck/internal/config"
	"github.com/five82/framecheck/internal/ffprobe"
	"github.com/five82/framecheck/internal/reporter"
)

// mockProber implements MediaProber for testing.
type mockProber struct {
	probe    *ffprobe.ProbeData
	err      error
	panicMsg string
}

func (m *mockProber) Probe(_ context.Context, _ string) (*ffprobe.ProbeData, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.probe, m.err
}

// mockScanner implements DefectScanner for testing.
type mockScanner struct {
	black       int
	frozen      int
	consistency float64
	measured    bool
}

func (m *mockScanner) CountBlackFrames(context.Context, string) int  { return m.black }
func (m *mockScanner) CountFrozenFrames(context.Context, string) int { return m.frozen }
func (m *mockScanner) FrameRateConsistency(context.Context, string, int, float64) (float64, bool) {
	return m.consistency, m.measured
}

// failingStore implements store.MetricsStore and always errors.
type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("bucket unreachable")
}

// warningReporter collects Warning events and discards the rest.
type warningReporter struct {
	reporter.NullReporter
	warnings []string
}

func (r *warningReporter) Warning(message string) {
	r.warnings = append(r.warnings, message)
}

// capturingStore records the last document it receives.
type capturingStore struct {
	key     string
	payload []byte
}

func (s *capturingStore) Put(_ context.Context, key string, payload []byte) error {
	s.key = key
	s.payload = payload
	return nil
}

// goodProbe returns probe data that passes every check. The time base
// and frame rate denominators agree so the timescale cross-check stays
// quiet, and bitrates are left undeclared so the bitrate cross-checks
// are skipped.
func goodProbe() *ffprobe.ProbeData {
	return &ffprobe.ProbeData{
		Format: ffprobe.Format{Filename: "clip.mp4", Duration: "5.0"},
		Streams: []ffprobe.Stream{
			{
				CodecType:  "video",
				TimeBase:   "1/1000",
				RFrameRate: "25000/1000",
				Width:      1920,
				Height:     1080,
				Duration:   "5.0",
				NbFrames:   "125",
			},
			{
				CodecType:  "audio",
				SampleRate: "48000",
				Channels:   2,
			},
		},
	}
}

func goodScanner() *mockScanner {
	return &mockScanner{consistency: 98.5, measured: true}
}

// tempVideoFile creates a file with a known size so bitrate computation
// has something to stat.
func tempVideoFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("failed to create temp video: %v", err)
	}
	return path
}

func newTestValidator(prober MediaProber, scanner DefectScanner) *Validator {
	return NewWithTools(prober, scanner, config.NewConfig(), nil, nil, nil)
}

func checkInvariant(t *testing.T, result *Result) {
	t.Helper()
	if result.IsValid != (len(result.Issues) == 0) {
		t.Errorf("invariant violated: IsValid=%v with %d issues", result.IsValid, len(result.Issues))
	}
	if result.Metrics == nil {
		t.Error("Metrics = nil, want non-nil map")
	}
}

func TestValidate_WellFormed(t *testing.T) {
	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: goodProbe()}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !result.IsValid {
		t.Fatalf("IsValid = false, issues: %v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Errorf("Issues = %v, want empty", result.Issues)
	}

	if result.FPS != 25 {
		t.Errorf("FPS = %v, want 25", result.FPS)
	}
	if result.FrameCount != 125 {
		t.Errorf("FrameCount = %d, want 125", result.FrameCount)
	}
	if result.Resolution != [2]int{1920, 1080} {
		t.Errorf("Resolution = %v, want [1920 1080]", result.Resolution)
	}
	if !result.HasAudio {
		t.Error("HasAudio = false, want true")
	}
	if result.AudioChannels == nil || *result.AudioChannels != 2 {
		t.Errorf("AudioChannels = %v, want 2", result.AudioChannels)
	}

	// 1000 bytes over 5 seconds
	if result.Bitrate != 1600 {
		t.Errorf("Bitrate = %v, want 1600", result.Bitrate)
	}

	if result.Timestamp.Location() != result.Timestamp.UTC().Location() {
		t.Error("Timestamp not in UTC")
	}
}

func TestValidate_InvalidFrameRate(t *testing.T) {
	probe := goodProbe()
	probe.Streams[0].RFrameRate = "0/1"
	probe.Streams[0].TimeBase = "1/1"
	probe.Streams[0].NbFrames = "1"

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, &mockScanner{})

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if len(result.Issues) != 1 || result.Issues[0] != "Invalid frame rate" {
		t.Errorf("Issues = %v, want exactly [\"Invalid frame rate\"]", result.Issues)
	}
}

func TestValidate_FrameCountBelowMinimum(t *testing.T) {
	probe := goodProbe()
	probe.Streams[0].NbFrames = "0"

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "below minimum (1)") {
		t.Errorf("Issues = %v, want frame count issue citing minimum (1)", result.Issues)
	}
}

func TestValidate_DurationBelowMinimum(t *testing.T) {
	probe := goodProbe()
	probe.Streams[0].Duration = "0.05"

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "below minimum (0.1s)") {
		t.Errorf("Issues = %v, want duration issue citing the 0.1s minimum", result.Issues)
	}
}

func TestValidate_InvalidResolution(t *testing.T) {
	probe := goodProbe()
	probe.Streams[0].Width = 0

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "Invalid resolution") {
		t.Errorf("Issues = %v, want resolution issue", result.Issues)
	}
}

func TestValidate_NoAudio(t *testing.T) {
	probe := goodProbe()
	probe.Streams = probe.Streams[:1]

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "No audio track found") {
		t.Errorf("Issues = %v, want missing audio issue", result.Issues)
	}
	if result.AudioSampleRate != nil || result.AudioChannels != nil {
		t.Error("audio fields should be nil without an audio track")
	}
}

func TestValidate_DefectCounts(t *testing.T) {
	path := tempVideoFile(t, 1000)
	scanner := goodScanner()
	scanner.black = 2
	scanner.frozen = 1
	v := newTestValidator(&mockProber{probe: goodProbe()}, scanner)

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "Found 2 black frames") {
		t.Errorf("Issues = %v, want black frame issue", result.Issues)
	}
	if !hasIssueContaining(result, "Found 1 frozen frames") {
		t.Errorf("Issues = %v, want frozen frame issue", result.Issues)
	}
	if result.Metrics[MetricBlackFrames] != 2 || result.Metrics[MetricFrozenFrames] != 1 {
		t.Errorf("defect metrics = %v/%v, want 2/1",
			result.Metrics[MetricBlackFrames], result.Metrics[MetricFrozenFrames])
	}
}

func TestValidate_FrameRateConsistency(t *testing.T) {
	tests := []struct {
		name        string
		consistency float64
		measured    bool
		wantIssue   bool
	}{
		{"below threshold", 90.0, true, true},
		{"above threshold", 96.0, true, false},
		{"not measured", 0.0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempVideoFile(t, 1000)
			scanner := &mockScanner{consistency: tt.consistency, measured: tt.measured}
			v := newTestValidator(&mockProber{probe: goodProbe()}, scanner)

			result := v.Validate(context.Background(), path)
			checkInvariant(t, result)

			found := hasIssueContaining(result, "Frame rate inconsistency")
			if found != tt.wantIssue {
				t.Errorf("consistency issue present = %v, want %v (issues: %v)", found, tt.wantIssue, result.Issues)
			}
			if tt.wantIssue && !hasIssueContaining(result, "90.0%") {
				t.Errorf("Issues = %v, want measured percentage named", result.Issues)
			}
			if result.Metrics[MetricFrameRateConsistency] != tt.consistency {
				t.Errorf("consistency metric = %v, want %v",
					result.Metrics[MetricFrameRateConsistency], tt.consistency)
			}
		})
	}
}

func TestValidate_TimescaleMismatch(t *testing.T) {
	probe := goodProbe()
	probe.Streams[0].TimeBase = "1/1000"
	probe.Streams[0].RFrameRate = "30000/1200"

	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: probe}, goodScanner())

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !hasIssueContaining(result, "Timescale mismatch: container=1000, video=1200") {
		t.Errorf("Issues = %v, want timescale mismatch", result.Issues)
	}
}

func TestValidate_ProbeFailure(t *testing.T) {
	v := newTestValidator(&mockProber{err: errors.New("no such file")}, goodScanner())

	result := v.Validate(context.Background(), "/nonexistent/clip.mp4")
	checkInvariant(t, result)

	if result.IsValid {
		t.Error("IsValid = true, want false")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("len(Issues) = %d, want exactly 1: %v", len(result.Issues), result.Issues)
	}
	if !strings.HasPrefix(result.Issues[0], "Validation error:") {
		t.Errorf("Issues[0] = %q, want \"Validation error:\" prefix", result.Issues[0])
	}
	if len(result.Metrics) != 0 {
		t.Errorf("Metrics = %v, want empty on probe failure", result.Metrics)
	}
}

func TestValidate_PanicRecovery(t *testing.T) {
	v := newTestValidator(&mockProber{panicMsg: "index out of range"}, goodScanner())

	result := v.Validate(context.Background(), "clip.mp4")
	checkInvariant(t, result)

	if result.IsValid {
		t.Error("IsValid = true, want false")
	}
	if len(result.Issues) != 1 || !strings.HasPrefix(result.Issues[0], "Validation error:") {
		t.Errorf("Issues = %v, want single \"Validation error:\" entry", result.Issues)
	}
}

func TestValidate_MetricsSchemaStable(t *testing.T) {
	path := tempVideoFile(t, 1000)

	valid := newTestValidator(&mockProber{probe: goodProbe()}, goodScanner()).
		Validate(context.Background(), path)

	badProbe := goodProbe()
	badProbe.Streams[0].RFrameRate = "0/1"
	badProbe.Streams = badProbe.Streams[:1]
	invalid := newTestValidator(&mockProber{probe: badProbe}, &mockScanner{}).
		Validate(context.Background(), path)

	if valid.IsValid == invalid.IsValid {
		t.Fatal("expected one valid and one invalid result")
	}
	if len(valid.Metrics) != len(invalid.Metrics) {
		t.Errorf("metric counts differ: %d vs %d", len(valid.Metrics), len(invalid.Metrics))
	}
	for key := range valid.Metrics {
		if _, ok := invalid.Metrics[key]; !ok {
			t.Errorf("metric %q missing from failed-validation result", key)
		}
	}
}

func TestValidate_PersistenceFailureIgnored(t *testing.T) {
	path := tempVideoFile(t, 1000)
	rep := &warningReporter{}
	v := NewWithTools(&mockProber{probe: goodProbe()}, goodScanner(), config.NewConfig(), failingStore{}, rep, nil)

	result := v.Validate(context.Background(), path)
	checkInvariant(t, result)

	if !result.IsValid {
		t.Errorf("IsValid = false, persistence failure must not affect the result: %v", result.Issues)
	}

	// The failure surfaces as a reporter warning, not as an issue.
	if len(rep.warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", rep.warnings)
	}
	if !strings.Contains(rep.warnings[0], "bucket unreachable") {
		t.Errorf("warning = %q, want store error included", rep.warnings[0])
	}
}

func TestValidate_PersistsMetricsDocument(t *testing.T) {
	path := tempVideoFile(t, 1000)
	captured := &capturingStore{}
	v := NewWithTools(&mockProber{probe: goodProbe()}, goodScanner(), config.NewConfig(), captured, nil, nil)

	v.Validate(context.Background(), path)

	if !strings.HasPrefix(captured.key, "validation-metrics/") {
		t.Errorf("key = %q, want validation-metrics/ prefix", captured.key)
	}
	if !strings.HasSuffix(captured.key, "_clip.mp4.json") {
		t.Errorf("key = %q, want _clip.mp4.json suffix", captured.key)
	}

	var doc map[string]float64
	if err := json.Unmarshal(captured.payload, &doc); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := doc[MetricFPS]; !ok {
		t.Errorf("payload %v missing %q", doc, MetricFPS)
	}
}

func TestValidate_ResultSerialization(t *testing.T) {
	path := tempVideoFile(t, 1000)
	v := newTestValidator(&mockProber{probe: goodProbe()}, goodScanner())

	result := v.Validate(context.Background(), path)

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	resolution, ok := decoded["resolution"].([]interface{})
	if !ok || len(resolution) != 2 {
		t.Errorf("resolution = %v, want two-element array", decoded["resolution"])
	}

	issues, ok := decoded["issues"].([]interface{})
	if !ok {
		t.Errorf("issues = %v, want array (not null)", decoded["issues"])
	} else if len(issues) != 0 {
		t.Errorf("issues = %v, want empty array", issues)
	}

	if _, ok := decoded["timestamp"].(string); !ok {
		t.Errorf("timestamp = %v, want ISO-8601 string", decoded["timestamp"])
	}
}

func hasIssueContaining(result *Result, substr string) bool {
	for _, issue := range result.Issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}
