package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/pdfscan/internal/config"
	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/logging"
	"github.com/ziadkadry99/pdfscan/internal/scan"
	"github.com/ziadkadry99/pdfscan/internal/walker"
)

// loadConfig loads the config and applies the global log flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pdfscan init` to create a config file", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// signalContext is cancelled on the first SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// discover enumerates candidate documents, showing a spinner on a terminal.
func discover(cfg *config.Config, quiet bool, logger zerolog.Logger) ([]string, error) {
	log := logging.Component(logger, "walker")
	log.Debug().Str("root", cfg.Root).Msg("discovering documents")

	var s *spinner.Spinner
	if !quiet && os.Getenv("CI") == "" {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Discovering PDF documents in " + cfg.Root
		s.Writer = os.Stderr
		s.Start()
	}

	paths, err := walker.Walk(walker.Config{
		Root:    cfg.Root,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Logger:  &log,
	})
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return nil, err
	}

	log.Info().Int("documents", len(paths)).Msg("discovery finished")
	return paths, nil
}

// newPipeline wires the document backend, repair capability and worker pool
// selected by cfg. matcher may be nil when only Validate is used.
func newPipeline(cfg *config.Config, matcher *scan.Matcher, logger zerolog.Logger) (*scan.Pipeline, *scan.Pool, error) {
	lib, err := document.NewLibrary(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	var repairer document.Repairer = document.NopRepairer{}
	if cfg.Repair {
		repairer = document.NewPdfcpuRepairer()
	}
	pool := scan.NewPool(cfg.Workers, !cfg.Parallel)
	return scan.NewPipeline(lib, repairer, matcher, pool, logger), pool, nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func printSuccess(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	color.New(color.FgCyan).Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func printStep(w io.Writer, format string, args ...any) {
	color.New(color.FgBlue).Fprintf(w, "→ %s\n", fmt.Sprintf(format, args...))
}
