// Package progress reports per-phase scan progress to the terminal or CI logs.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for one phase at a time. Start is
// called before each phase, Update after every finished item and Finish
// when the phase drains.
type Reporter interface {
	Start(total int, label string)
	Update(done int, item string)
	Finish()
}

// NewReporter returns a NopReporter when quiet is set, a CIReporter when the
// CI environment variable is set and a TerminalReporter otherwise.
func NewReporter(quiet bool) Reporter {
	if quiet {
		return NopReporter{}
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int, label string) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(done int, _ string) {
	if r.bar != nil {
		_ = r.bar.Set(done)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out   io.Writer
	total int
	label string
}

func (r *CIReporter) Start(total int, label string) {
	r.total = total
	r.label = label
	fmt.Fprintf(r.Out, "%s: %d documents\n", label, total)
}

func (r *CIReporter) Update(done int, item string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", done, r.total, item)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.Out, "%s: done\n", r.label)
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Start(int, string)  {}
func (NopReporter) Update(int, string) {}
func (NopReporter) Finish()            {}
