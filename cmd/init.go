package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindfile/mindfile/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a .mindfile.yml configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		fmt.Printf("\nReady. Run `mindfile status` to verify %s and the evidence window.\n", cfg.MemoryFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
