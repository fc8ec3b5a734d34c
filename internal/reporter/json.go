package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events for machine consumption.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) FileStarted(path string) {
	r.write(map[string]interface{}{
		"type":      "file_started",
		"path":      path,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) FileSummary(summary FileSummary) {
	r.write(map[string]interface{}{
		"type":       "file_summary",
		"path":       summary.Path,
		"duration":   summary.Duration,
		"resolution": summary.Resolution,
		"fps":        summary.FPS,
		"size_bytes": summary.SizeBytes,
		"audio":      summary.AudioDescription,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) ValidationComplete(summary ValidationSummary) {
	r.write(map[string]interface{}{
		"type":      "validation_complete",
		"path":      summary.Path,
		"is_valid":  summary.IsValid,
		"issues":    summary.Issues,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"input_dir":   info.InputDir,
		"total_files": info.TotalFiles,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]interface{}{
		"type":      "file_progress",
		"index":     context.Index,
		"total":     context.Total,
		"path":      context.Path,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]interface{}{
		"type":         "batch_complete",
		"total_files":  summary.TotalFiles,
		"valid_count":  summary.ValidCount,
		"total_issues": summary.TotalIssues,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(message string) {
	r.write(map[string]interface{}{
		"type":      "error",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
