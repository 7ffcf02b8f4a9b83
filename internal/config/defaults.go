package config

import (
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/logging"
	"github.com/ziadkadry99/pdfscan/internal/report"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".pdfscan.yml"

// DefaultOutput is where the HTML report goes unless configured otherwise.
const DefaultOutput = "results/search_results.html"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Root:     ".",
		Parallel: true,
		Workers:  0,
		Backend:  document.BackendFitz,
		Repair:   true,
		Report: ReportConfig{
			Output: DefaultOutput,
			Format: report.FormatHTML,
			Sort:   true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// DefaultOutputFor returns DefaultOutput with the extension of format.
func DefaultOutputFor(format string) string {
	return strings.TrimSuffix(DefaultOutput, filepath.Ext(DefaultOutput)) + report.Extension(format)
}
