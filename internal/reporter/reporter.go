// Package reporter provides progress and outcome reporting for validation runs.
package reporter

// Reporter defines the interface for validation reporting.
type Reporter interface {
	FileStarted(path string)
	FileSummary(summary FileSummary)
	ValidationComplete(summary ValidationSummary)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Warning(message string)
	Error(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) FileStarted(string)                   {}
func (NullReporter) FileSummary(FileSummary)              {}
func (NullReporter) ValidationComplete(ValidationSummary) {}
func (NullReporter) BatchStarted(BatchStartInfo)          {}
func (NullReporter) FileProgress(FileProgressContext)     {}
func (NullReporter) BatchComplete(BatchSummary)           {}
func (NullReporter) Warning(string)                       {}
func (NullReporter) Error(string)                         {}
