package reporter

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/framecheck/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	bold     *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) FileStarted(path string) {
	fmt.Println()
	_, _ = r.cyan.Printf("VALIDATING %s\n", filepath.Base(path))
}

func (r *TerminalReporter) FileSummary(summary FileSummary) {
	r.printLabel(12, "Duration:", util.FormatDuration(summary.Duration))
	r.printLabel(12, "Resolution:", summary.Resolution)
	r.printLabel(12, "Frame rate:", fmt.Sprintf("%.3f fps", summary.FPS))
	r.printLabel(12, "Size:", util.FormatBytes(summary.SizeBytes))
	r.printLabel(12, "Audio:", summary.AudioDescription)
}

func (r *TerminalReporter) ValidationComplete(summary ValidationSummary) {
	if summary.IsValid {
		fmt.Printf("  %s\n", r.green.Sprint("✓ PASS"))
		return
	}

	fmt.Printf("  %s\n", r.red.Sprintf("✗ FAIL (%d issue(s))", len(summary.Issues)))
	for _, issue := range summary.Issues {
		fmt.Printf("    %s %s\n", r.yellow.Sprint("-"), issue)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH VALIDATION")
	r.printLabel(12, "Directory:", info.InputDir)
	r.printLabel(12, "Files:", fmt.Sprintf("%d", info.TotalFiles))

	r.mu.Lock()
	r.progress = progressbar.NewOptions(info.TotalFiles,
		progressbar.OptionSetDescription("Validating"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	r.mu.Unlock()
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Add(1)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.mu.Unlock()

	fmt.Println()
	_, _ = r.cyan.Println("SUMMARY")
	r.printLabel(12, "Files:", fmt.Sprintf("%d", summary.TotalFiles))

	verdict := r.green.Sprintf("%d passed", summary.ValidCount)
	failed := summary.TotalFiles - summary.ValidCount
	if failed > 0 {
		verdict = fmt.Sprintf("%s, %s", verdict, r.red.Sprintf("%d failed", failed))
	}
	r.printLabel(12, "Result:", verdict)
	r.printLabel(12, "Issues:", fmt.Sprintf("%d", summary.TotalIssues))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Printf("  %s %s\n", r.yellow.Sprint("Warning:"), message)
}

func (r *TerminalReporter) Error(message string) {
	fmt.Printf("  %s %s\n", r.red.Sprint("Error:"), message)
}
