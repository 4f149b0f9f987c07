package reflect

import (
	"fmt"
	"os"
	"strings"
)

// Prompt placeholders, substituted textually (never executed).
const (
	placeholderFileName = "{{FILE_NAME}}"
	placeholderContent  = "{{CURRENT_CONTENT}}"
	placeholderEvidence = "{{EVIDENCE}}"
	placeholderContext  = "{{CONTEXT}}"
)

const systemPrompt = `You are a careful editor maintaining a long-lived memory document for an autonomous agent. You propose precise, textually-anchored edits grounded in evidence from recent sessions. Never invent patterns the evidence does not show. Prefer the smallest edit that captures a correction.`

const defaultPromptTemplate = `Below is the current content of {{FILE_NAME}}, the agent's memory document, followed by evidence from recent sessions.

Review the evidence for moments where the user corrected, redirected, or expressed frustration with the agent. Decide which corrections reveal a durable behavioral pattern worth recording, then propose edits to the document.

Report your findings with the report_reflection tool. If the tool is unavailable, respond with a single JSON object with exactly these fields:

{
  "corrections_found": 0,
  "sessions_with_corrections": 0,
  "edits": [
    {
      "type": "replace",
      "anchor_text": "exact text currently in the document",
      "new_text": "replacement text",
      "section": "heading the edit belongs under",
      "reason": "why this edit is warranted"
    },
    {
      "type": "insert",
      "insert_after_text": "exact text currently in the document",
      "new_text": "new line(s) to add after it",
      "section": "heading the edit belongs under",
      "reason": "why this edit is warranted"
    }
  ],
  "patterns_not_added": [{"pattern": "observed but skipped", "reason": "why"}],
  "summary": "1-3 sentence summary of what changed and why"
}

Anchor rules: anchor_text and insert_after_text must be copied verbatim from the current document and must be unique within it. Do not propose an edit whose anchor appears more than once.

=== CURRENT DOCUMENT ({{FILE_NAME}}) ===
{{CURRENT_CONTENT}}

=== ADDITIONAL CONTEXT ===
{{CONTEXT}}

=== SESSION EVIDENCE ===
{{EVIDENCE}}`

// LoadTemplate returns the prompt template to use: the file at path when
// given, otherwise the built-in default.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return defaultPromptTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt template %s: %w", path, err)
	}
	return string(data), nil
}

// BuildPrompt substitutes the placeholders into the template.
func BuildPrompt(template, fileName, content, evidence, contextText string) string {
	if contextText == "" {
		contextText = "(none)"
	}
	return strings.NewReplacer(
		placeholderFileName, fileName,
		placeholderContent, content,
		placeholderEvidence, evidence,
		placeholderContext, contextText,
	).Replace(template)
}
