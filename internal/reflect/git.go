package reflect

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

// AutoCommit stages and commits the document after a successful run. It is
// a best-effort post-write hook: any failure is returned for logging but
// never aborts the run.
func AutoCommit(docPath string, when time.Time) error {
	dir := filepath.Dir(docPath)
	base := filepath.Base(docPath)

	add := exec.Command("git", "add", base)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("git add: %v: %s", err, out)
	}

	msg := fmt.Sprintf("mindfile: reflection pass %s", when.Format("2006-01-02 15:04"))
	commit := exec.Command("git", "commit", "-m", msg, "--", base)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return fmt.Errorf("git commit: %v: %s", err, out)
	}
	return nil
}
