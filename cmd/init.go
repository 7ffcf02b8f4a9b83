package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pdfscan/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a pdfscan configuration with an interactive wizard",
	Long:  `Asks for the search root, keyword, backend and report settings and writes them to the file named by --config (.pdfscan.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
