package reflect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mindfile/mindfile/internal/editor"
	"github.com/mindfile/mindfile/internal/llm"
)

// analysisToolName is the structured delivery channel offered to the
// model; a tool call with this name is preferred over free-text JSON.
const analysisToolName = "report_reflection"

// analysisToolSchema is the JSON Schema for the report_reflection tool's
// arguments, matching the Analysis field set.
var analysisToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "corrections_found": {"type": "integer"},
    "sessions_with_corrections": {"type": "integer"},
    "edits": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "enum": ["replace", "insert"]},
          "anchor_text": {"type": "string"},
          "insert_after_text": {"type": "string"},
          "new_text": {"type": "string"},
          "section": {"type": "string"},
          "reason": {"type": "string"}
        },
        "required": ["type", "new_text"]
      }
    },
    "patterns_not_added": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "pattern": {"type": "string"},
          "reason": {"type": "string"}
        }
      }
    },
    "summary": {"type": "string"}
  },
  "required": ["corrections_found", "edits", "summary"]
}`)

// AnalysisTool is the tool spec handed to the provider on every batch.
var AnalysisTool = llm.ToolSpec{
	Name:        analysisToolName,
	Description: "Report the corrections found in the session evidence and the anchored edits that record them.",
	Schema:      analysisToolSchema,
}

// SkippedPattern is an observed pattern the analysis chose not to record.
type SkippedPattern struct {
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// Analysis is the structured result of one reflection call.
type Analysis struct {
	CorrectionsFound        int              `json:"corrections_found"`
	SessionsWithCorrections int              `json:"sessions_with_corrections"`
	Edits                   []editor.Edit    `json:"edits"`
	PatternsNotAdded        []SkippedPattern `json:"patterns_not_added"`
	Summary                 string           `json:"summary"`
}

// ParseAnalysis extracts the Analysis from a completion response. A
// report_reflection tool call is preferred when present; otherwise the
// content is parsed as JSON, tolerating a fenced code block wrapper.
func ParseAnalysis(resp *llm.CompletionResponse) (*Analysis, error) {
	for _, call := range resp.ToolCalls {
		if call.Name != analysisToolName {
			continue
		}
		var analysis Analysis
		if err := json.Unmarshal([]byte(call.Arguments), &analysis); err != nil {
			return nil, fmt.Errorf("parsing %s arguments: %w", analysisToolName, err)
		}
		return &analysis, nil
	}

	raw := stripCodeFences(resp.Content)
	if raw == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("parsing analysis JSON: %w", err)
	}
	return &analysis, nil
}

// stripCodeFences removes an optional markdown code fence wrapper.
func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return raw
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}
