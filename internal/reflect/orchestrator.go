// Package reflect runs one reflection pass over the agent memory document:
// gather evidence, ask the analysis model for anchored edits per batch,
// apply them, and record the run.
package reflect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindfile/mindfile/internal/config"
	"github.com/mindfile/mindfile/internal/editor"
	"github.com/mindfile/mindfile/internal/evidence"
	"github.com/mindfile/mindfile/internal/llm"
	"github.com/mindfile/mindfile/internal/sources"
)

// Abort reasons. Every aborted run wraps one of these with detail suitable
// for direct display to an operator.
var (
	ErrNotFound         = errors.New("memory document not found")
	ErrTooSmall         = errors.New("memory document too small")
	ErrNoEvidence       = errors.New("no substantive sessions")
	ErrAnalysisFailed   = errors.New("analysis failed")
	ErrAllEditsRejected = errors.New("all proposed edits were rejected")
	ErrResultTooSmall   = errors.New("result suspiciously small")
)

const (
	// minDocumentBytes gates reflection: a document smaller than this is
	// assumed to be a stub or a botched write, not a real memory file.
	minDocumentBytes = 100

	// promptOverhead approximates the non-evidence bytes of a prompt
	// (template, document, context). evidenceFloor keeps the per-batch
	// budget workable even when the document itself is huge.
	promptOverhead = 20_000
	evidenceFloor  = 30_000

	analysisMaxTokens   = 8192
	analysisTemperature = 0.2
)

// Orchestrator drives one reflection run. Batches are processed strictly
// sequentially: each batch's prompt is built from the current on-disk
// document, which may include earlier batches' writes.
type Orchestrator struct {
	Config   *config.Config
	Provider llm.Provider

	// DryRun validates and counts edits without touching the document,
	// the history, or git.
	DryRun bool

	// Progress, if set, is called after each batch completes.
	Progress func(done, total int)
	// Logf receives diagnostics; nil means stderr.
	Logf func(format string, args ...any)
	// Now is the clock; nil means time.Now. Injected for tests.
	Now func() time.Time
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run executes one full reflection pass and returns the persisted run
// record. A nil run with a non-nil error is an aborted pass; the document
// is only modified by batches that applied at least one edit.
func (o *Orchestrator) Run(ctx context.Context) (*Run, error) {
	cfg := o.Config
	docPath := cfg.MemoryFile

	original, err := os.ReadFile(docPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, docPath)
		}
		return nil, fmt.Errorf("reading %s: %w", docPath, err)
	}
	if len(original) < minDocumentBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (minimum %d)", ErrTooSmall, docPath, len(original), minDocumentBytes)
	}

	bundle, err := o.gatherEvidence(ctx)
	if err != nil {
		return nil, err
	}
	if bundle.SessionsIncluded == 0 || strings.TrimSpace(bundle.Text) == "" {
		return nil, fmt.Errorf("%w: scanned %d sessions under %s", ErrNoEvidence, bundle.SessionsScanned, cfg.Evidence.SourceRoot)
	}

	contextText, warnings := sources.Gather(ctx, cfg.ContextSources)
	for _, w := range warnings {
		o.logf("warning: %s", w)
	}

	template, err := LoadTemplate(cfg.PromptTemplate)
	if err != nil {
		return nil, err
	}

	// Split the evidence when it exceeds what a single analysis call can
	// consume alongside the document and template.
	perBatch := cfg.MaxPromptBytes - promptOverhead
	if perBatch < evidenceFloor {
		perBatch = evidenceFloor
	}
	var batches []string
	if len(bundle.Text) > perBatch && len(bundle.Sessions) > 0 {
		for _, b := range evidence.BuildTranscriptBatches(bundle.Sessions, perBatch) {
			batches = append(batches, evidence.JoinBatch(b))
		}
	} else {
		batches = []string{bundle.Text}
	}
	singleBatch := len(batches) == 1

	fileName := filepath.Base(docPath)
	backupPath := ""
	totalApplied := 0
	totalCorrections := 0
	batchFailures := 0
	var rejections, summaries []string
	var editRecords []EditRecord

	for i, evidenceText := range batches {
		// Later batches observe earlier batches' writes.
		current, err := os.ReadFile(docPath)
		if err != nil {
			return nil, fmt.Errorf("re-reading %s: %w", docPath, err)
		}

		prompt := BuildPrompt(template, fileName, string(current), evidenceText, contextText)
		resp, err := o.Provider.Complete(ctx, llm.CompletionRequest{
			Model:       cfg.Model,
			Messages:    []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}, {Role: llm.RoleUser, Content: prompt}},
			MaxTokens:   analysisMaxTokens,
			Temperature: analysisTemperature,
			JSONMode:    true,
			Tools:       []llm.ToolSpec{AnalysisTool},
		})
		if err != nil {
			// Transport errors never block later batches.
			if singleBatch {
				return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
			}
			o.logf("batch %d/%d: analysis call failed: %v", i+1, len(batches), err)
			batchFailures++
			o.reportProgress(i+1, len(batches))
			continue
		}

		analysis, err := ParseAnalysis(resp)
		if err != nil {
			// A parse failure aborts only when it is the first and only batch.
			if singleBatch {
				return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
			}
			o.logf("batch %d/%d: unparseable analysis: %v", i+1, len(batches), err)
			batchFailures++
			o.reportProgress(i+1, len(batches))
			continue
		}

		totalCorrections += analysis.CorrectionsFound
		if s := strings.TrimSpace(analysis.Summary); s != "" {
			summaries = append(summaries, s)
		}
		for _, p := range analysis.PatternsNotAdded {
			o.logf("batch %d/%d: pattern not added: %s (%s)", i+1, len(batches), p.Pattern, p.Reason)
		}

		outcome := editor.Apply(string(current), analysis.Edits)
		rejections = append(rejections, outcome.Rejections...)
		for _, r := range outcome.Rejections {
			o.logf("batch %d/%d: edit rejected: %s", i+1, len(batches), r)
		}

		if outcome.AppliedCount > 0 {
			// Guard against an edit collapsing the document: never commit
			// a result smaller than half the pre-run size.
			if len(outcome.FinalText) < len(original)/2 {
				if totalApplied == 0 && backupPath != "" {
					os.Remove(backupPath)
				}
				return nil, fmt.Errorf("%w: result is %d bytes, original was %d", ErrResultTooSmall, len(outcome.FinalText), len(original))
			}

			if !o.DryRun {
				// One backup per run, created before the first write and
				// shared by every later batch.
				if backupPath == "" {
					backupPath, err = CreateBackup(docPath, cfg.BackupDir, o.now())
					if err != nil {
						return nil, err
					}
				}
				if err := os.WriteFile(docPath, []byte(outcome.FinalText), 0o644); err != nil {
					return nil, fmt.Errorf("writing %s: %w", docPath, err)
				}
			}
			totalApplied += outcome.AppliedCount

			for _, e := range outcome.Applied {
				section := e.Section
				if section == "" {
					anchor := e.AnchorText
					if e.Kind == editor.KindInsert {
						anchor = e.InsertAfterText
					}
					section = SectionFor(string(current), anchor)
				}
				editRecords = append(editRecords, EditRecord{Kind: e.Kind, Section: section, Reason: e.Reason})
			}
		}

		o.reportProgress(i+1, len(batches))
	}

	if totalApplied == 0 {
		if backupPath != "" {
			os.Remove(backupPath)
		}
		detail := "no edits were proposed"
		if len(rejections) > 0 {
			detail = strings.Join(dedupe(rejections), "; ")
		}
		return nil, fmt.Errorf("%w: %s", ErrAllEditsRejected, detail)
	}

	final, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("re-reading %s: %w", docPath, err)
	}

	run := Run{
		ID:               uuid.NewString(),
		Timestamp:        o.now(),
		DocumentPath:     docPath,
		SessionsScanned:  bundle.SessionsScanned,
		SessionsIncluded: bundle.SessionsIncluded,
		CorrectionsFound: totalCorrections,
		EditsApplied:     totalApplied,
		Summary:          strings.Join(summaries, "\n"),
		ChangedLines:     countChangedLines(string(original), string(final)),
		Batches:          len(batches),
		BatchFailures:    batchFailures,
		Edits:            editRecords,
	}
	if o.DryRun {
		return &run, nil
	}

	if err := AppendRun(cfg.HistoryFile, run); err != nil {
		o.logf("warning: could not record run history: %v", err)
	}

	if cfg.Git.AutoCommit {
		if err := AutoCommit(docPath, o.now()); err != nil {
			o.logf("warning: auto-commit failed: %v", err)
		}
	}

	return &run, nil
}

// gatherEvidence returns the evidence bundle from the configured command
// when set, otherwise from the session log collector.
func (o *Orchestrator) gatherEvidence(ctx context.Context) (evidence.Bundle, error) {
	cfg := o.Config.Evidence
	if cfg.Command != "" {
		bundle, err := evidence.CommandEvidence(ctx, cfg.Command, cfg.CommandMaxBytes)
		if err != nil {
			return evidence.Bundle{}, fmt.Errorf("%w: %v", ErrNoEvidence, err)
		}
		return bundle, nil
	}

	collector := &evidence.Collector{
		SourceRoot:   cfg.SourceRoot,
		LookbackDays: o.Config.LookbackDays,
		ByteBudget:   cfg.ByteBudget,
		Now:          o.Now,
	}
	return collector.Collect(), nil
}

func (o *Orchestrator) reportProgress(done, total int) {
	if o.Progress != nil {
		o.Progress(done, total)
	}
}

// countChangedLines compares original and final line by line at the same
// index. It is a cheap change estimate, not a true diff.
func countChangedLines(original, final string) int {
	origLines := strings.Split(original, "\n")
	finalLines := strings.Split(final, "\n")

	changed := 0
	n := len(origLines)
	if len(finalLines) > n {
		n = len(finalLines)
	}
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(origLines) {
			a = origLines[i]
		}
		if i < len(finalLines) {
			b = finalLines[i]
		}
		if a != b {
			changed++
		}
	}
	return changed
}

// dedupe drops duplicate strings, preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
