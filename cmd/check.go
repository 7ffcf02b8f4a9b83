package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pdfscan/internal/domain"
	"github.com/ziadkadry99/pdfscan/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check [root]",
	Short: "Validate (and repair) every PDF under root without searching",
	Long: `Runs only the validation phase: each document is opened and its first
page read; unreadable documents are repaired once and re-checked. Prints
which documents are readable, which were repaired and which would be
excluded from a scan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.Int("workers", 0, "number of parallel workers (0 = one per CPU)")
	f.Bool("serial", false, "process documents one at a time")
	f.String("backend", "", "text extraction backend: fitz or pure")
	f.Bool("no-repair", false, "report unreadable documents without repairing them")
	f.BoolP("quiet", "q", false, "no spinner or progress bars")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if len(args) > 0 {
		cfg.Root = args[0]
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
	if err := cfg.Validate(); err != nil {
		return err
	}
	quiet, _ := f.GetBool("quiet")

	logger := newLogger(cfg)
	ctx, stop := signalContext()
	defer stop()

	candidates, err := discover(cfg, quiet, logger)
	if err != nil {
		return err
	}

	pipeline, _, err := newPipeline(cfg, nil, logger)
	if err != nil {
		return domain.ConfigError(err)
	}
	pipeline.SetReporter(progress.NewReporter(quiet))

	outcomes, excluded, runErr := pipeline.Validate(ctx, candidates)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	var readable, repaired int
	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusReadable:
			readable++
		case domain.StatusRepaired:
			repaired++
		}
	}

	out := cmd.OutOrStdout()
	if runErr != nil {
		printWarning(out, "Interrupted after %d of %d documents", len(outcomes), len(candidates))
	}
	printSuccess(out, "%d readable", readable)
	if repaired > 0 {
		printInfo(out, "%d repaired", repaired)
	}
	if excluded.Len() == 0 {
		return runErr
	}
	printWarning(out, "%d excluded", excluded.Len())
	for _, p := range excluded.Paths() {
		printStep(out, "%s: %v", p, excluded.Reason(p))
	}
	return runErr
}
