// Package editor applies textually-anchored edits to a document. It is a
// pure text-to-text transform: it never touches storage, and it reports a
// human-readable rejection for every edit it refuses to apply.
package editor

import (
	"fmt"
	"strings"
)

// Edit kinds.
const (
	KindReplace = "replace"
	KindInsert  = "insert"
)

// duplicationGuardThreshold is the minimum anchor length (bytes) at which
// the duplication guard runs; the guard matches on the anchor's first
// duplicationPrefixLen bytes. Short anchors skip the guard: short snippets
// recurring in new text is not reliably a bug.
const (
	duplicationGuardThreshold = 50
	duplicationPrefixLen      = 50
)

// Edit is one machine-proposed change. Exactly one of AnchorText and
// InsertAfterText is meaningful depending on Kind.
type Edit struct {
	Kind            string `json:"type"`
	AnchorText      string `json:"anchor_text,omitempty"`
	InsertAfterText string `json:"insert_after_text,omitempty"`
	NewText         string `json:"new_text"`
	Section         string `json:"section,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// Outcome is the result of applying a list of edits against one document.
// Applied lists the edits that passed validation, for run bookkeeping.
type Outcome struct {
	FinalText    string
	AppliedCount int
	Applied      []Edit
	Rejections   []string
}

// Apply applies edits to doc strictly in list order; each edit's effect is
// visible to all subsequent edits in the same call. Rejected edits are
// recorded and skipped; partial success is normal.
func Apply(doc string, edits []Edit) Outcome {
	out := Outcome{FinalText: doc}

	for _, edit := range edits {
		next, reason := applyOne(out.FinalText, edit)
		if reason != "" {
			out.Rejections = append(out.Rejections, reason)
			continue
		}
		out.FinalText = next
		out.AppliedCount++
		out.Applied = append(out.Applied, edit)
	}
	return out
}

// applyOne validates and applies a single edit against the current document
// state. It returns the new document, or a non-empty rejection reason. The
// checks run in a fixed order: shape, anchor existence, anchor uniqueness,
// duplication guard, insert dedup.
func applyOne(doc string, edit Edit) (string, string) {
	var anchor string
	switch edit.Kind {
	case KindReplace:
		if edit.AnchorText == "" || edit.NewText == "" {
			return "", fmt.Sprintf("Invalid edit: replace requires anchor_text and new_text (got %s)", snippet(edit.NewText))
		}
		anchor = edit.AnchorText
	case KindInsert:
		if edit.InsertAfterText == "" || edit.NewText == "" {
			return "", fmt.Sprintf("Invalid edit: insert requires insert_after_text and new_text (got %s)", snippet(edit.NewText))
		}
		anchor = edit.InsertAfterText
	default:
		return "", fmt.Sprintf("Invalid edit: unknown kind %q", edit.Kind)
	}

	switch n := strings.Count(doc, anchor); {
	case n == 0:
		return "", fmt.Sprintf("Could not find anchor text: %s", snippet(anchor))
	case n > 1:
		// Ambiguous edits are never guessed at.
		return "", fmt.Sprintf("Ambiguous match (%d occurrences): %s", n, snippet(anchor))
	}

	if edit.Kind == KindReplace && len(edit.AnchorText) > duplicationGuardThreshold {
		prefix := edit.AnchorText[:duplicationPrefixLen]
		if strings.Count(edit.NewText, prefix) > 1 {
			return "", fmt.Sprintf("Duplication detected: new text repeats the original %s", snippet(prefix))
		}
	}

	if edit.Kind == KindInsert {
		if strings.Contains(doc, strings.TrimSpace(edit.NewText)) {
			return "", fmt.Sprintf("Insert skipped, content already exists: %s", snippet(edit.NewText))
		}
		idx := strings.Index(doc, anchor)
		end := idx + len(anchor)
		return doc[:end] + "\n" + edit.NewText + doc[end:], ""
	}

	return strings.Replace(doc, edit.AnchorText, edit.NewText, 1), ""
}

// snippet renders a short quoted excerpt of s for rejection diagnostics.
func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > 60 {
		s = string(runes[:60]) + "..."
	}
	return fmt.Sprintf("%q", s)
}
