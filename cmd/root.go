package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mindfile",
	Short: "Evidence-driven maintenance of an agent memory document",
	Long: `Mindfile keeps a long-lived agent memory document honest. It scans
recent session logs for moments where the user corrected or redirected
the agent, asks an LLM to propose textually-anchored edits, and applies
them conservatively with backup and rollback safety.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mindfile.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
