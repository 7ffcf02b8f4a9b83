package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pdfscan/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pdfscan",
	Short: "Search a tree of PDF documents for a keyword",
	Long: `pdfscan walks a directory for PDF documents, repairs the ones that
cannot be read, and reports every line matching a keyword with its
page number and a link back to the source file.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides config)")
}
