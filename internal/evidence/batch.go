package evidence

import "strings"

// BuildTranscriptBatches partitions formatted session transcripts into
// ordered batches that each fit under byteBudget, counting one separator
// per entry. A single session larger than the budget still becomes its own
// one-element batch: sessions are never split and never dropped.
func BuildTranscriptBatches(sessions []SessionRecord, byteBudget int) [][]string {
	var batches [][]string
	var current []string
	currentBytes := 0

	for _, s := range sessions {
		need := len(s.Transcript) + len(sessionSeparator)
		if len(current) > 0 && currentBytes+need > byteBudget {
			batches = append(batches, current)
			current = nil
			currentBytes = 0
		}
		current = append(current, s.Transcript)
		currentBytes += need
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// JoinBatch renders one batch back into prompt-ready evidence text.
func JoinBatch(transcripts []string) string {
	return strings.Join(transcripts, sessionSeparator)
}
