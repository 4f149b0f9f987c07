package reflect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupStampLayout is 15 characters with no punctuation.
const backupStampLayout = "20060102T150405"

// CreateBackup copies the document at docPath into backupDir as
// {basename}_{stamp}.{ext} and returns the backup path.
func CreateBackup(docPath, backupDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return "", fmt.Errorf("reading document for backup: %w", err)
	}

	base := filepath.Base(docPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	backupPath := filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", name, now.Format(backupStampLayout), ext))

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return backupPath, nil
}
