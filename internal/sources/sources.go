// Package sources gathers optional auxiliary context (files, command
// output, URLs) for injection into reflection prompts. Context is
// supporting material, distinct from session evidence.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mindfile/mindfile/internal/config"
)

// Gather reads every configured context source and concatenates the
// results as labeled blocks. Individual source failures become warnings;
// a failing source never aborts the gather.
func Gather(ctx context.Context, specs []config.ContextSource) (text string, warnings []string) {
	var blocks []string
	for _, spec := range specs {
		maxBytes := spec.MaxBytes
		if maxBytes <= 0 {
			maxBytes = config.DefaultContextSourceBytes
		}

		var content string
		var err error
		switch spec.Type {
		case config.SourceFile:
			content, err = gatherFiles(spec.Value, maxBytes)
		case config.SourceCommand:
			content, err = gatherCommand(ctx, spec.Value, maxBytes)
		case config.SourceURL:
			content, err = gatherURL(ctx, spec.Value, maxBytes)
		default:
			err = fmt.Errorf("unknown source type %q", spec.Type)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("context source %s %q: %v", spec.Type, spec.Value, err))
			continue
		}
		if content == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("## Context: %s\n%s", spec.Value, content))
	}
	return strings.Join(blocks, "\n\n"), warnings
}

// gatherFiles reads every file matching the glob pattern, concatenated
// under a shared byte cap.
func gatherFiles(pattern string, maxBytes int) (string, error) {
	base, pat := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(os.DirFS(base), pat)
	if err != nil {
		return "", fmt.Errorf("glob: %w", err)
	}

	var b strings.Builder
	for _, match := range matches {
		data, err := os.ReadFile(filepath.Join(base, match))
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.Write(data)
		if b.Len() >= maxBytes {
			break
		}
	}
	return capBytes(strings.TrimSpace(b.String()), maxBytes), nil
}

// gatherCommand captures a command's stdout under the byte cap.
func gatherCommand(ctx context.Context, command string, maxBytes int) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).Output()
	if err != nil {
		return "", err
	}
	return capBytes(strings.TrimSpace(string(out)), maxBytes), nil
}

// gatherURL performs a GET and captures the body under the byte cap.
func gatherURL(ctx context.Context, url string, maxBytes int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	// Read one byte past the cap so the truncation marker is accurate.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return "", err
	}
	return capBytes(strings.TrimSpace(string(body)), maxBytes), nil
}

// capBytes truncates s to maxBytes with an explicit marker.
func capBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	return s[:maxBytes] + "\n[...truncated]"
}
