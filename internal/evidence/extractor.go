package evidence

import (
	"bufio"
	"encoding/json"
	"io"
	"iter"
	"os"
	"strings"
)

// maxLineBytes bounds a single JSONL record; agent logs can embed large
// tool outputs in one line.
const maxLineBytes = 8 * 1024 * 1024

// rawRecord is one line of a per-session JSONL log. Only records with
// Type "message" participate in extraction.
type rawRecord struct {
	Type    string     `json:"type"`
	Message rawMessage `json:"message"`
}

type rawMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// rawFragment is one content block inside a message record.
type rawFragment struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
}

// ExtractExchanges reads the JSONL session log at path and yields its
// substantive exchanges in file order. An unreadable file yields an empty
// sequence; malformed lines are skipped without aborting the scan.
func ExtractExchanges(path string) iter.Seq[Exchange] {
	return func(yield func(Exchange) bool) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()
		parseExchanges(f)(yield)
	}
}

// parseExchanges yields exchanges from a JSONL stream. Only "message"
// records with role user or agent are considered; a record producing
// neither text nor thinking is skipped entirely.
func parseExchanges(r io.Reader) iter.Seq[Exchange] {
	return func(yield func(Exchange) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var rec rawRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				continue
			}
			if rec.Type != "message" {
				continue
			}

			role := normalizeRole(rec.Message.Role)
			if role == "" {
				continue
			}

			text, thinking := joinFragments(rec.Message.Content)
			if strings.TrimSpace(text) == "" && strings.TrimSpace(thinking) == "" {
				continue
			}

			if !yield(Exchange{Role: role, Text: text, Thinking: thinking}) {
				return
			}
		}
	}
}

// normalizeRole maps raw log roles onto the two roles evidence cares
// about. Runtimes write either "agent" or "assistant" for the agent side.
func normalizeRole(role string) string {
	switch role {
	case "user":
		return "user"
	case "agent", "assistant":
		return "agent"
	default:
		return ""
	}
}

// joinFragments collects the text and thinking fragments of one record.
// Fragments of the same kind are joined with a newline. Content delivered
// as a bare string is treated as a single text fragment.
func joinFragments(content json.RawMessage) (text, thinking string) {
	if len(content) == 0 {
		return "", ""
	}

	var plain string
	if err := json.Unmarshal(content, &plain); err == nil {
		return plain, ""
	}

	var fragments []rawFragment
	if err := json.Unmarshal(content, &fragments); err != nil {
		return "", ""
	}

	var texts, thoughts []string
	for _, frag := range fragments {
		switch frag.Type {
		case "text":
			if frag.Text != "" {
				texts = append(texts, frag.Text)
			}
		case "thinking":
			if frag.Thinking != "" {
				thoughts = append(thoughts, frag.Thinking)
			}
		}
	}
	return strings.Join(texts, "\n"), strings.Join(thoughts, "\n")
}
