package reporter

// Reporter defines the interface for progress reporting during long
// scans. The core algorithms call it between frame reads; it never
// influences control flow.
type Reporter interface {
	// Stage announces a pipeline stage with a short message
	Stage(name, message string)

	// StepStarted begins a counted loop (total may be 0 if unknown)
	StepStarted(description string, total int)

	// Step reports loop progress
	Step(done int)

	// StepDone finishes the current counted loop
	StepDone()

	// Warning reports a recoverable condition, such as a skipped
	// unreadable frame
	Warning(message string)
}

// NullReporter is a no-op reporter that discards all updates
type NullReporter struct{}

func (NullReporter) Stage(string, string) {}

func (NullReporter) StepStarted(string, int) {}

func (NullReporter) Step(int) {}

func (NullReporter) StepDone() {}

func (NullReporter) Warning(string) {}

// Ensure NullReporter implements Reporter
var _ Reporter = NullReporter{}
