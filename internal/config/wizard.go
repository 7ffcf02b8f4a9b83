package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/pdfscan/internal/document"
	"github.com/ziadkadry99/pdfscan/internal/report"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pdfscan! Let's configure your search.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Search root.
	rootPrompt := promptui.Prompt{
		Label:    "Directory to search",
		Default:  cfg.Root,
		Validate: validateDir,
	}
	root, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	cfg.Root = root

	// 2. Default keyword.
	keywordPrompt := promptui.Prompt{
		Label: "Default keyword (leave blank to pass it on the command line)",
	}
	keyword, err := keywordPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("keyword: %w", err)
	}
	cfg.Keyword = strings.TrimSpace(keyword)

	// 3. Backend.
	backendPrompt := promptui.Select{
		Label: "Select text extraction backend",
		Items: []string{
			"fitz - MuPDF, most faithful text",
			"pure - pure Go, no native library needed",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	cfg.Backend = document.Backends[backendIdx]

	// 4. Concurrency.
	workersPrompt := promptui.Prompt{
		Label:    "Worker count (0 = one per CPU, 1 = serial)",
		Default:  "0",
		Validate: validateWorkers,
	}
	workersStr, err := workersPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	cfg.Workers, _ = strconv.Atoi(strings.TrimSpace(workersStr))
	cfg.Parallel = cfg.Workers != 1

	// 5. Repair.
	repairPrompt := promptui.Prompt{
		Label:     "Repair malformed PDFs in place",
		IsConfirm: true,
		Default:   "y",
	}
	if _, err := repairPrompt.Run(); err != nil {
		if err != promptui.ErrAbort {
			return nil, fmt.Errorf("repair: %w", err)
		}
		cfg.Repair = false
	}

	// 6. Report format and location.
	formatPrompt := promptui.Select{
		Label: "Select report format",
		Items: report.Formats,
	}
	_, format, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("format selection: %w", err)
	}
	cfg.Report.Format = format

	defaultOutput := DefaultOutputFor(format)
	outputPrompt := promptui.Prompt{
		Label:   "Report output path",
		Default: defaultOutput,
	}
	output, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	cfg.Report.Output = output

	// 7. Exclude patterns.
	excludePrompt := promptui.Prompt{
		Label: "Exclude patterns (comma-separated globs, blank for none)",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	cfg.Exclude = splitAndTrim(excludeStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateDir(s string) error {
	info, err := os.Stat(s)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s)
	}
	return nil
}

func validateWorkers(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
