package reporter

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly progress to the terminal
type TerminalReporter struct {
	bar    *progressbar.ProgressBar
	cyan   *color.Color
	yellow *color.Color
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:   color.New(color.FgCyan, color.Bold),
		yellow: color.New(color.FgYellow),
	}
}

func (r *TerminalReporter) Stage(name, message string) {
	r.finishBar()
	fmt.Println()
	_, _ = r.cyan.Printf("[%s] ", name)
	fmt.Println(message)
}

func (r *TerminalReporter) StepStarted(description string, total int) {
	r.finishBar()
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("  "+description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Step(done int) {
	if r.bar != nil {
		_ = r.bar.Set(done)
	}
}

func (r *TerminalReporter) StepDone() {
	r.finishBar()
}

func (r *TerminalReporter) Warning(message string) {
	r.finishBar()
	_, _ = r.yellow.Printf("  warning: %s\n", message)
}

func (r *TerminalReporter) finishBar() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// Ensure TerminalReporter implements Reporter
var _ Reporter = (*TerminalReporter)(nil)
