package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindfile/mindfile/internal/evidence"
	"github.com/mindfile/mindfile/internal/reflect"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what a reflection run would see, without calling the LLM",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Document gate.
	info, err := os.Stat(cfg.MemoryFile)
	switch {
	case os.IsNotExist(err):
		fmt.Printf("Document:  %s (missing)\n", cfg.MemoryFile)
	case err != nil:
		return fmt.Errorf("checking %s: %w", cfg.MemoryFile, err)
	default:
		fmt.Printf("Document:  %s (%d bytes)\n", cfg.MemoryFile, info.Size())
	}

	// Evidence gate.
	collector := &evidence.Collector{
		SourceRoot:   cfg.Evidence.SourceRoot,
		LookbackDays: cfg.LookbackDays,
		ByteBudget:   cfg.Evidence.ByteBudget,
	}
	bundle := collector.Collect()
	fmt.Printf("Evidence:  %d sessions scanned, %d included (%d bytes packed, budget %d)\n",
		bundle.SessionsScanned, bundle.SessionsIncluded, len(bundle.Text), cfg.Evidence.ByteBudget)

	// Recent runs.
	runs, err := reflect.LoadHistory(cfg.HistoryFile)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("History:   no runs recorded")
		return nil
	}
	last := runs[len(runs)-1]
	fmt.Printf("History:   %d runs, last %s (%d edits applied)\n",
		len(runs), last.Timestamp.Format("2006-01-02 15:04"), last.EditsApplied)
	return nil
}
