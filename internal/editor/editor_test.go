package editor

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestApply_ReplaceUniqueAnchor(t *testing.T) {
	doc := "# Rules\n- Always ask before deleting files.\n- Keep answers short."
	out := Apply(doc, []Edit{{
		Kind:       KindReplace,
		AnchorText: "- Keep answers short.",
		NewText:    "- Keep answers short unless asked for detail.",
	}})

	if out.AppliedCount != 1 {
		t.Fatalf("AppliedCount = %d, want 1 (rejections: %v)", out.AppliedCount, out.Rejections)
	}
	if !strings.Contains(out.FinalText, "unless asked for detail") {
		t.Errorf("final text missing replacement: %q", out.FinalText)
	}
	if strings.Contains(out.FinalText, "- Keep answers short.\n") {
		t.Errorf("final text still contains original anchor")
	}
}

func TestApply_InsertAfterAnchor(t *testing.T) {
	doc := "- Rule A.\n- Rule B."
	out := Apply(doc, []Edit{{
		Kind:            KindInsert,
		InsertAfterText: "- Rule A.",
		NewText:         "- Rule A-prime.",
	}})

	if out.AppliedCount != 1 {
		t.Fatalf("AppliedCount = %d, want 1 (rejections: %v)", out.AppliedCount, out.Rejections)
	}
	want := []string{"- Rule A.", "- Rule A-prime.", "- Rule B."}
	got := strings.Split(out.FinalText, "\n")
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestApply_AmbiguousAnchorRejected(t *testing.T) {
	doc := "- Rule.\nSome text.\n- Rule.\n"
	out := Apply(doc, []Edit{{
		Kind:       KindReplace,
		AnchorText: "- Rule.",
		NewText:    "- Better rule.",
	}})

	if out.AppliedCount != 0 {
		t.Fatalf("AppliedCount = %d, want 0", out.AppliedCount)
	}
	if out.FinalText != doc {
		t.Errorf("document changed despite rejection")
	}
	if len(out.Rejections) != 1 || !strings.Contains(out.Rejections[0], "Ambiguous") {
		t.Errorf("rejections = %v, want one Ambiguous reason", out.Rejections)
	}
}

func TestApply_MissingAnchorRejected(t *testing.T) {
	out := Apply("- Rule A.", []Edit{{
		Kind:       KindReplace,
		AnchorText: "- Rule Z.",
		NewText:    "- Rule Z improved.",
	}})

	if out.AppliedCount != 0 {
		t.Fatalf("AppliedCount = %d, want 0", out.AppliedCount)
	}
	if len(out.Rejections) != 1 || !strings.Contains(out.Rejections[0], "Could not find") {
		t.Errorf("rejections = %v, want one missing-anchor reason", out.Rejections)
	}
}

func TestApply_InvalidShapes(t *testing.T) {
	cases := []struct {
		name string
		edit Edit
	}{
		{"unknown kind", Edit{Kind: "append", NewText: "x"}},
		{"replace without anchor", Edit{Kind: KindReplace, NewText: "x"}},
		{"replace without new text", Edit{Kind: KindReplace, AnchorText: "a"}},
		{"insert without anchor", Edit{Kind: KindInsert, NewText: "x"}},
		{"insert without new text", Edit{Kind: KindInsert, InsertAfterText: "a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Apply("document body text", []Edit{tc.edit})
			if out.AppliedCount != 0 {
				t.Fatalf("AppliedCount = %d, want 0", out.AppliedCount)
			}
			if len(out.Rejections) != 1 || !strings.Contains(out.Rejections[0], "Invalid edit") {
				t.Errorf("rejections = %v, want one Invalid edit reason", out.Rejections)
			}
		})
	}
}

func TestApply_InsertIdempotent(t *testing.T) {
	doc := "- Rule A.\n- Rule B."
	edit := Edit{Kind: KindInsert, InsertAfterText: "- Rule A.", NewText: "- Rule A-prime."}

	first := Apply(doc, []Edit{edit})
	if first.AppliedCount != 1 {
		t.Fatalf("first pass AppliedCount = %d, want 1", first.AppliedCount)
	}

	second := Apply(first.FinalText, []Edit{edit})
	if second.AppliedCount != 0 {
		t.Fatalf("second pass AppliedCount = %d, want 0", second.AppliedCount)
	}
	if len(second.Rejections) != 1 || !strings.Contains(second.Rejections[0], "already exists") {
		t.Errorf("rejections = %v, want one already-exists reason", second.Rejections)
	}
	if second.FinalText != first.FinalText {
		t.Errorf("second pass changed the document")
	}
}

func TestApply_SequentialVisibility(t *testing.T) {
	doc := "- Rule A.\n- Rule B."
	inserted := "- Rule C (from edit one)."
	edits := []Edit{
		{Kind: KindInsert, InsertAfterText: "- Rule B.", NewText: inserted},
		{Kind: KindReplace, AnchorText: inserted, NewText: "- Rule C, refined by edit two."},
	}

	out := Apply(doc, edits)
	if out.AppliedCount != 2 {
		t.Fatalf("AppliedCount = %d, want 2 (rejections: %v)", out.AppliedCount, out.Rejections)
	}
	if !strings.Contains(out.FinalText, "refined by edit two") {
		t.Errorf("edit two did not see edit one's text: %q", out.FinalText)
	}

	// Reversed order: edit two's anchor does not exist yet.
	reversed := Apply(doc, []Edit{edits[1], edits[0]})
	if reversed.AppliedCount != 1 {
		t.Fatalf("reversed AppliedCount = %d, want 1", reversed.AppliedCount)
	}
	if len(reversed.Rejections) != 1 || !strings.Contains(reversed.Rejections[0], "Could not find") {
		t.Errorf("reversed rejections = %v", reversed.Rejections)
	}
}

func TestApply_DuplicationGuardBoundary(t *testing.T) {
	// 51-character anchor: the guard fires when its first 50 characters
	// appear twice in the replacement.
	anchor51 := strings.Repeat("a", 51)
	prefix50 := anchor51[:50]
	doc := "start " + anchor51 + " end"

	out := Apply(doc, []Edit{{
		Kind:       KindReplace,
		AnchorText: anchor51,
		NewText:    prefix50 + " middle " + prefix50,
	}})
	if out.AppliedCount != 0 {
		t.Fatalf("51-char anchor: AppliedCount = %d, want 0", out.AppliedCount)
	}
	if len(out.Rejections) != 1 || !strings.Contains(out.Rejections[0], "Duplication") {
		t.Errorf("rejections = %v, want one Duplication reason", out.Rejections)
	}

	// 50-character anchor with the same doubled pattern passes the guard.
	anchor50 := strings.Repeat("b", 50)
	doc50 := "start " + anchor50 + " end"
	out50 := Apply(doc50, []Edit{{
		Kind:       KindReplace,
		AnchorText: anchor50,
		NewText:    anchor50 + " middle " + anchor50,
	}})
	if out50.AppliedCount != 1 {
		t.Fatalf("50-char anchor: AppliedCount = %d, want 1 (rejections: %v)", out50.AppliedCount, out50.Rejections)
	}
}

func TestApply_PartialSuccessContinues(t *testing.T) {
	doc := "- Rule A.\n- Rule B.\n- Rule C."
	out := Apply(doc, []Edit{
		{Kind: KindReplace, AnchorText: "- Rule X.", NewText: "- nope."},
		{Kind: KindReplace, AnchorText: "- Rule B.", NewText: "- Rule B, clarified."},
		{Kind: "bogus", NewText: "x"},
		{Kind: KindReplace, AnchorText: "- Rule C.", NewText: "- Rule C, clarified."},
	})

	if out.AppliedCount != 2 {
		t.Fatalf("AppliedCount = %d, want 2 (rejections: %v)", out.AppliedCount, out.Rejections)
	}
	if len(out.Rejections) != 2 {
		t.Errorf("rejections = %v, want 2", out.Rejections)
	}
	if len(out.Applied) != 2 {
		t.Errorf("Applied = %d edits, want 2", len(out.Applied))
	}
}

// Property: a replace edit whose anchor occurs exactly once always applies,
// and the result contains the new text; any rejected edit leaves the
// document unchanged.
func TestApply_ReplaceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pre := rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "pre")
		anchor := rapid.StringMatching(`[A-Z]{5,30}`).Draw(t, "anchor")
		post := rapid.StringMatching(`[a-z ]{0,20}`).Draw(t, "post")
		replacement := rapid.StringMatching(`[0-9]{1,15}`).Draw(t, "replacement")

		doc := pre + anchor + post
		if strings.Count(doc, anchor) != 1 {
			t.Skip("anchor not unique in generated document")
		}

		out := Apply(doc, []Edit{{Kind: KindReplace, AnchorText: anchor, NewText: replacement}})
		if out.AppliedCount != 1 {
			t.Fatalf("AppliedCount = %d, want 1 (rejections: %v)", out.AppliedCount, out.Rejections)
		}
		if out.FinalText != pre+replacement+post {
			t.Fatalf("FinalText = %q, want %q", out.FinalText, pre+replacement+post)
		}
	})
}
