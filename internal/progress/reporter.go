package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback during a directory scan.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()

	// UpdateDiscovery reports the analyzer pipeline's running (discovered,
	// completed, current file name) tuple, for callers that want discovery
	// count and completion count tracked independently (discovery usually
	// outpaces completion, since the walker streams paths ahead of the
	// worker pool that processes them).
	UpdateDiscovery(discovered, completed int, currentName string)
}

// NewReporter returns a CIReporter if the CI or GITHUB_ACTIONS environment
// variable is set, and a TerminalReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) UpdateDiscovery(discovered, completed int, currentName string) {
	if r.bar != nil {
		r.bar.ChangeMax(discovered)
		r.bar.Describe(fmt.Sprintf("indexing %s", currentName))
		_ = r.bar.Set(completed)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(os.Stderr, "starting scan of %d files\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) UpdateDiscovery(discovered, completed int, currentName string) {
	fmt.Fprintf(os.Stderr, "discovered=%d completed=%d current=%s\n", discovered, completed, currentName)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(os.Stderr, "scan complete")
}
