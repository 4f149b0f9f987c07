package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mindfile/mindfile/internal/reflect"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reflection pass over the memory document",
	Long: `Gathers evidence from recent session logs, asks the configured LLM for
anchored edits, applies them with backup safety, and records the run.`,
	RunE: runReflection,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "analyze and report edits without writing the document")
	runCmd.Flags().Int("lookback", 0, "lookback window in days (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runReflection(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if lookback, _ := cmd.Flags().GetInt("lookback"); lookback > 0 {
		cfg.LookbackDays = lookback
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	orch := &reflect.Orchestrator{
		Config:   cfg,
		Provider: provider,
		DryRun:   dryRun,
		Progress: func(done, total int) {
			if total < 2 {
				return
			}
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Reflecting"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		},
	}
	run, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Dry run: %d edits would be applied (%d corrections found, %d sessions included)\n",
			run.EditsApplied, run.CorrectionsFound, run.SessionsIncluded)
	} else {
		fmt.Printf("Applied %d edits (%d corrections found, %d/%d sessions included, %d lines changed)\n",
			run.EditsApplied, run.CorrectionsFound, run.SessionsIncluded, run.SessionsScanned, run.ChangedLines)
	}
	if run.Summary != "" {
		fmt.Printf("\n%s\n", run.Summary)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Completed in %s\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
