package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mindfile/mindfile/internal/reflect"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent reflection runs and recurring sections",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of recent runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runs, err := reflect.LoadHistory(cfg.HistoryFile)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No reflection runs recorded yet.")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	for _, run := range runs {
		fmt.Printf("%s  %2d edits  %2d corrections  %d/%d sessions  %s\n",
			run.Timestamp.Format("2006-01-02 15:04"),
			run.EditsApplied, run.CorrectionsFound,
			run.SessionsIncluded, run.SessionsScanned,
			firstLine(run.Summary))
	}

	// Sections edited across more than one run suggest rules that are
	// not sticking.
	all, err := reflect.LoadHistory(cfg.HistoryFile)
	if err != nil {
		return err
	}
	recurrent := reflect.RecurrentSections(all)
	if len(recurrent) > 0 {
		sections := make([]string, 0, len(recurrent))
		for s := range recurrent {
			sections = append(sections, s)
		}
		sort.Slice(sections, func(i, j int) bool {
			if recurrent[sections[i]] != recurrent[sections[j]] {
				return recurrent[sections[i]] > recurrent[sections[j]]
			}
			return sections[i] < sections[j]
		})

		fmt.Println("\nSections edited in multiple runs:")
		for _, s := range sections {
			marker := ""
			if !sectionExists(cfg.MemoryFile, s) {
				marker = " (no longer in document)"
			}
			fmt.Printf("  %-40s %d runs%s\n", s, recurrent[s], marker)
		}
	}
	return nil
}

// sectionExists reports whether the document still carries a heading with
// the given title.
func sectionExists(docPath, title string) bool {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return false
	}
	for _, s := range reflect.DocumentSections(string(data)) {
		if s.Title == title {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
