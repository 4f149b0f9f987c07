package reflect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxHistoryRuns caps the persisted history at the most recent runs.
const maxHistoryRuns = 100

// EditRecord is the per-edit triple kept for later recurrence analysis.
type EditRecord struct {
	Kind    string `json:"kind"`
	Section string `json:"section,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Run is the persisted record of one orchestration pass. It is created at
// the end of a run and never mutated afterward.
type Run struct {
	ID               string       `json:"id"`
	Timestamp        time.Time    `json:"timestamp"`
	DocumentPath     string       `json:"document_path"`
	SessionsScanned  int          `json:"sessions_scanned"`
	SessionsIncluded int          `json:"sessions_included"`
	CorrectionsFound int          `json:"corrections_found"`
	EditsApplied     int          `json:"edits_applied"`
	Summary          string       `json:"summary"`
	ChangedLines     int          `json:"changed_lines"`
	Batches          int          `json:"batches"`
	BatchFailures    int          `json:"batch_failures,omitempty"`
	Edits            []EditRecord `json:"edits,omitempty"`
}

// LoadHistory reads the run history. A missing file yields an empty list.
func LoadHistory(path string) ([]Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}

	var runs []Run
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", path, err)
	}
	return runs, nil
}

// AppendRun appends a run to the history, keeping only the most recent
// maxHistoryRuns entries. The write is atomic via temp file + rename.
func AppendRun(path string, run Run) error {
	runs, err := LoadHistory(path)
	if err != nil {
		return err
	}

	runs = append(runs, run)
	if len(runs) > maxHistoryRuns {
		runs = runs[len(runs)-maxHistoryRuns:]
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "history-*.json.tmp")
	if err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// RecurrentSections returns, for each document section, the number of
// distinct runs that edited it, for sections touched by more than one run.
// A section edited again and again indicates a rule that is not sticking.
func RecurrentSections(runs []Run) map[string]int {
	counts := make(map[string]int)
	for _, run := range runs {
		seen := make(map[string]bool)
		for _, e := range run.Edits {
			if e.Section == "" || seen[e.Section] {
				continue
			}
			seen[e.Section] = true
			counts[e.Section]++
		}
	}
	for section, n := range counts {
		if n < 2 {
			delete(counts, section)
		}
	}
	return counts
}
