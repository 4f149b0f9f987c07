package reflect

import (
	"testing"

	"github.com/mindfile/mindfile/internal/editor"
	"github.com/mindfile/mindfile/internal/llm"
)

const sampleAnalysisJSON = `{
  "corrections_found": 2,
  "sessions_with_corrections": 1,
  "edits": [
    {"type": "replace", "anchor_text": "- Old rule.", "new_text": "- New rule.", "section": "Rules", "reason": "user corrected this twice"}
  ],
  "patterns_not_added": [{"pattern": "one-off style nit", "reason": "single occurrence"}],
  "summary": "Tightened the old rule."
}`

func TestParseAnalysis_PlainJSON(t *testing.T) {
	analysis, err := ParseAnalysis(&llm.CompletionResponse{Content: sampleAnalysisJSON})
	if err != nil {
		t.Fatal(err)
	}
	if analysis.CorrectionsFound != 2 {
		t.Errorf("CorrectionsFound = %d, want 2", analysis.CorrectionsFound)
	}
	if len(analysis.Edits) != 1 || analysis.Edits[0].Kind != editor.KindReplace {
		t.Errorf("Edits = %+v", analysis.Edits)
	}
	if analysis.Edits[0].Section != "Rules" {
		t.Errorf("Section = %q", analysis.Edits[0].Section)
	}
	if len(analysis.PatternsNotAdded) != 1 {
		t.Errorf("PatternsNotAdded = %+v", analysis.PatternsNotAdded)
	}
	if analysis.Summary != "Tightened the old rule." {
		t.Errorf("Summary = %q", analysis.Summary)
	}
}

func TestParseAnalysis_CodeFenced(t *testing.T) {
	fenced := "```json\n" + sampleAnalysisJSON + "\n```"
	analysis, err := ParseAnalysis(&llm.CompletionResponse{Content: fenced})
	if err != nil {
		t.Fatal(err)
	}
	if analysis.CorrectionsFound != 2 {
		t.Errorf("CorrectionsFound = %d, want 2", analysis.CorrectionsFound)
	}
}

func TestParseAnalysis_PrefersToolCall(t *testing.T) {
	resp := &llm.CompletionResponse{
		Content: `{"corrections_found": 99, "edits": [], "summary": "free text decoy"}`,
		ToolCalls: []llm.ToolCall{
			{Name: "something_else", Arguments: `{}`},
			{Name: "report_reflection", Arguments: sampleAnalysisJSON},
		},
	}
	analysis, err := ParseAnalysis(resp)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.CorrectionsFound != 2 {
		t.Errorf("CorrectionsFound = %d, want 2 (tool call should win over content)", analysis.CorrectionsFound)
	}
}

func TestParseAnalysis_Malformed(t *testing.T) {
	if _, err := ParseAnalysis(&llm.CompletionResponse{Content: "I could not find anything."}); err == nil {
		t.Error("expected error for non-JSON content")
	}
	if _, err := ParseAnalysis(&llm.CompletionResponse{}); err == nil {
		t.Error("expected error for empty response")
	}
	resp := &llm.CompletionResponse{
		ToolCalls: []llm.ToolCall{{Name: "report_reflection", Arguments: "{broken"}},
	}
	if _, err := ParseAnalysis(resp); err == nil {
		t.Error("expected error for malformed tool arguments")
	}
}

func TestBuildPrompt_Placeholders(t *testing.T) {
	tmpl := "file={{FILE_NAME}} doc={{CURRENT_CONTENT}} ctx={{CONTEXT}} ev={{EVIDENCE}}"
	got := BuildPrompt(tmpl, "MEMORY.md", "the document", "the evidence", "the context")
	want := "file=MEMORY.md doc=the document ctx=the context ev=the evidence"
	if got != want {
		t.Errorf("BuildPrompt = %q, want %q", got, want)
	}

	// Empty context renders as an explicit marker rather than a hole.
	got = BuildPrompt("{{CONTEXT}}", "f", "d", "e", "")
	if got != "(none)" {
		t.Errorf("empty context = %q, want (none)", got)
	}
}
