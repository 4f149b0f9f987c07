package evidence

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandEvidence runs an external command and captures its stdout as an
// evidence bundle. Output is truncated to maxBytes with an explicit marker.
// The session count is estimated by counting the session header marker in
// the output, defaulting to 1 when none is found.
func CommandEvidence(ctx context.Context, command string, maxBytes int) (Bundle, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	out, err := cmd.Output()
	if err != nil {
		return Bundle{}, fmt.Errorf("evidence command %q: %w", command, err)
	}

	text := strings.TrimSpace(string(out))
	if maxBytes > 0 && len(text) > maxBytes {
		omitted := len(text) - maxBytes
		text = text[:maxBytes] + fmt.Sprintf("\n[...truncated, %d bytes omitted]", omitted)
	}

	sessions := strings.Count(text, sessionHeaderMarker)
	if sessions == 0 {
		sessions = 1
	}
	if text == "" {
		sessions = 0
	}

	return Bundle{
		Text:             text,
		SessionsScanned:  sessions,
		SessionsIncluded: sessions,
	}, nil
}
