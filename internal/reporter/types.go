package reporter

// FileSummary describes the probed properties of a file under validation.
type FileSummary struct {
	Path             string
	Duration         float64 // seconds
	Resolution       string  // "WxH" or "unknown"
	FPS              float64
	SizeBytes        uint64
	AudioDescription string // e.g. "2ch @ 48000 Hz" or "none"
}

// ValidationSummary describes the outcome of a single file validation.
type ValidationSummary struct {
	Path    string
	IsValid bool
	Issues  []string
}

// BatchStartInfo describes a batch validation run at startup.
type BatchStartInfo struct {
	InputDir   string
	TotalFiles int
}

// FileProgressContext locates one file within a batch run.
type FileProgressContext struct {
	Index int // 1-based
	Total int
	Path  string
}

// BatchSummary describes the aggregate outcome of a batch run.
type BatchSummary struct {
	TotalFiles  int
	ValidCount  int
	TotalIssues int
}
