package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pdfscan/internal/config"
	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/logging"
	"github.com/ziadkadry99/pdfscan/internal/progress"
	"github.com/ziadkadry99/pdfscan/internal/report"
	"github.com/ziadkadry99/pdfscan/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [keyword] [root]",
	Short: "Search every PDF under root for lines matching keyword",
	Long: `Walks root for PDF documents, validates each one (repairing it once
if it cannot be read), then searches the readable documents page by
page. Matching is case-insensitive and keyword is treated as a regular
expression unless --literal is given. The report is written even when
nothing matches.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.String("keyword", "", "keyword or pattern to search for")
	f.String("root", "", "directory (or single PDF) to search")
	f.Int("workers", 0, "number of parallel workers (0 = one per CPU)")
	f.Bool("serial", false, "process documents one at a time")
	f.String("backend", "", "text extraction backend: fitz or pure")
	f.Bool("no-repair", false, "exclude unreadable documents instead of repairing them")
	f.Bool("literal", false, "match the keyword as plain text, not a pattern")
	f.StringSlice("include", nil, "only search documents matching these globs")
	f.StringSlice("exclude", nil, "skip documents matching these globs")
	f.StringP("output", "o", "", "report output path")
	f.String("format", "", "report format: html, markdown, json or sqlite")
	f.Bool("no-sort", false, "keep matches in completion order")
	f.Bool("open", false, "open the report when done")
	f.BoolP("quiet", "q", false, "no spinner or progress bars")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, args, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Keyword) == "" {
		return domain.ConfigError(fmt.Errorf("%w: pass it as the first argument, --keyword or in %s", scan.ErrEmptyKeyword, cfgFile))
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	runID := uuid.NewString()
	logger := newLogger(cfg).With().Str("run_id", runID).Logger()

	ctx, stop := signalContext()
	defer stop()

	candidates, err := discover(cfg, quiet, logger)
	if err != nil {
		return err
	}

	matcher, err := scan.NewMatcher(cfg.Keyword, cfg.Literal, logger)
	if err != nil {
		return domain.ConfigError(err)
	}
	pipeline, pool, err := newPipeline(cfg, matcher, logger)
	if err != nil {
		return domain.ConfigError(err)
	}
	pipeline.SetReporter(progress.NewReporter(quiet))

	res, runErr := pipeline.Run(ctx, candidates)
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		logger.Warn().Msg("scan interrupted, writing partial report")
	}

	if cfg.Report.Sort {
		domain.SortMatches(res.Matches)
	}

	root, _ := filepath.Abs(cfg.Root)
	rep := report.Report{
		RunID:       runID,
		Keyword:     cfg.Keyword,
		Root:        root,
		GeneratedAt: time.Now(),
		Duration:    time.Since(start),
		Workers:     pool.Size(),
		Parallel:    cfg.Parallel,
		Candidates:  len(res.Candidates),
		Repaired:    res.Repaired(),
		Excluded:    exclusionsOf(res),
		Matches:     res.Matches,
	}

	writer, err := report.NewWriter(cfg.Report.Format, cfg.Report.Output)
	if err != nil {
		return err
	}
	if err := writer.Write(rep); err != nil {
		return err
	}
	reportLogger := logging.Component(logger, "report")
	reportLogger.Info().
		Str("path", writer.Path()).
		Str("format", cfg.Report.Format).
		Int("matches", len(rep.Matches)).
		Msg("report written")

	out := cmd.OutOrStdout()
	printSuccess(out, "Searched %d of %d documents in %s", len(res.Searched), len(candidates), time.Since(start).Round(time.Millisecond))
	if n := len(rep.Repaired); n > 0 {
		printInfo(out, "%d documents repaired", n)
	}
	if n := len(rep.Excluded); n > 0 {
		printWarning(out, "%d documents excluded (unreadable after repair)", n)
	}
	printInfo(out, "For a keyword: %s was found %d results.", cfg.Keyword, len(rep.Matches))
	printStep(out, "Report written to %s", writer.Path())

	if cfg.Report.Open && cfg.Report.Format == report.FormatHTML {
		abs, _ := filepath.Abs(writer.Path())
		if err := openBrowser(abs); err != nil {
			logger.Warn().Err(err).Msg("could not open report")
		}
	}

	return runErr
}

// applyScanFlags layers positional arguments and explicitly set flags over cfg.
func applyScanFlags(cmd *cobra.Command, args []string, cfg *config.Config) error {
	f := cmd.Flags()

	if len(args) > 0 {
		cfg.Keyword = args[0]
	}
	if len(args) > 1 {
		cfg.Root = args[1]
	}
	if f.Changed("keyword") {
		cfg.Keyword, _ = f.GetString("keyword")
	}
	if f.Changed("root") {
		cfg.Root, _ = f.GetString("root")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
		cfg.Parallel = cfg.Workers != 1
	}
	if serial, _ := f.GetBool("serial"); serial {
		cfg.Parallel = false
	}
	if f.Changed("backend") {
		cfg.Backend, _ = f.GetString("backend")
	}
	if noRepair, _ := f.GetBool("no-repair"); noRepair {
		cfg.Repair = false
	}
	if literal, _ := f.GetBool("literal"); literal {
		cfg.Literal = true
	}
	if f.Changed("include") {
		cfg.Include, _ = f.GetStringSlice("include")
	}
	if f.Changed("exclude") {
		cfg.Exclude, _ = f.GetStringSlice("exclude")
	}
	if f.Changed("format") {
		cfg.Report.Format, _ = f.GetString("format")
		// Keep the default output name in step with the chosen format.
		if !f.Changed("output") && cfg.Report.Output == config.DefaultOutput {
			cfg.Report.Output = config.DefaultOutputFor(cfg.Report.Format)
		}
	}
	if f.Changed("output") {
		cfg.Report.Output, _ = f.GetString("output")
	}
	if noSort, _ := f.GetBool("no-sort"); noSort {
		cfg.Report.Sort = false
	}
	if open, _ := f.GetBool("open"); open {
		cfg.Report.Open = true
	}
	return nil
}

func exclusionsOf(res *scan.Result) []report.Exclusion {
	paths := res.Excluded.Paths()
	out := make([]report.Exclusion, len(paths))
	for i, p := range paths {
		reason := ""
		if err := res.Excluded.Reason(p); err != nil {
			reason = err.Error()
		}
		out[i] = report.Exclusion{Path: p, Reason: reason}
	}
	return out
}
