package reporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
)

// decodeEvents parses NDJSON output into one map per line.
func decodeEvents(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var events []map[string]interface{}
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var event map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}
	return events
}

func TestJSONReporterEventStream(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)

	r.BatchStarted(BatchStartInfo{InputDir: "/renders", TotalFiles: 2})
	r.FileProgress(FileProgressContext{Index: 1, Total: 2, Path: "/renders/a.mp4"})
	r.FileStarted("/renders/a.mp4")
	r.ValidationComplete(ValidationSummary{Path: "/renders/a.mp4", IsValid: true, Issues: []string{}})
	r.ValidationComplete(ValidationSummary{Path: "/renders/b.mp4", IsValid: false, Issues: []string{"No audio track found"}})
	r.BatchComplete(BatchSummary{TotalFiles: 2, ValidCount: 1, TotalIssues: 1})

	events := decodeEvents(t, &buf)
	wantTypes := []string{
		"batch_started",
		"file_progress",
		"file_started",
		"validation_complete",
		"validation_complete",
		"batch_complete",
	}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, event := range events {
		if event["type"] != wantTypes[i] {
			t.Errorf("events[%d].type = %v, want %q", i, event["type"], wantTypes[i])
		}
		if _, ok := event["timestamp"].(float64); !ok {
			t.Errorf("events[%d] missing numeric timestamp: %v", i, event)
		}
	}

	failed := events[4]
	if failed["is_valid"] != false {
		t.Errorf("is_valid = %v, want false", failed["is_valid"])
	}
	issues, ok := failed["issues"].([]interface{})
	if !ok || len(issues) != 1 || issues[0] != "No audio track found" {
		t.Errorf("issues = %v, want [No audio track found]", failed["issues"])
	}
}

func TestJSONReporterFileSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)

	r.FileSummary(FileSummary{
		Path:             "/renders/a.mp4",
		Duration:         12.5,
		Resolution:       "1920x1080",
		FPS:              25,
		SizeBytes:        4096,
		AudioDescription: "48000 Hz, 2 ch",
	})

	events := decodeEvents(t, &buf)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	event := events[0]
	if event["type"] != "file_summary" {
		t.Errorf("type = %v, want file_summary", event["type"])
	}
	if event["resolution"] != "1920x1080" {
		t.Errorf("resolution = %v, want 1920x1080", event["resolution"])
	}
	if event["fps"] != 25.0 {
		t.Errorf("fps = %v, want 25", event["fps"])
	}
}

func TestCompositeReporterFanOut(t *testing.T) {
	var a, b bytes.Buffer
	composite := NewCompositeReporter(
		NewJSONReporterWithWriter(&a),
		NewJSONReporterWithWriter(&b),
	)

	composite.Warning("stale metrics")

	for name, buf := range map[string]*bytes.Buffer{"first": &a, "second": &b} {
		events := decodeEvents(t, buf)
		if len(events) != 1 || events[0]["type"] != "warning" {
			t.Errorf("%s reporter events = %v, want one warning", name, events)
		}
	}
}

func TestNullReporterIsSafe(t *testing.T) {
	r := NullReporter{}
	r.FileStarted("x")
	r.ValidationComplete(ValidationSummary{})
	r.BatchComplete(BatchSummary{})
	r.Warning("w")
	r.Error("e")
}
