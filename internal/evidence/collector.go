package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// sessionSeparator joins formatted session blocks; its length counts
	// against the byte budget once per included session.
	sessionSeparator = "\n---\n\n"

	// sessionHeaderMarker opens every formatted session block. Command
	// evidence sources count it to estimate session totals.
	sessionHeaderMarker = "### Session"

	// skewHourCutoff tolerates timezone skew in file naming: a session
	// stamped on the day after the lookback window still belongs to the
	// window when it started before this hour.
	skewHourCutoff = 8

	// Truncation ceilings for formatted exchanges. Agent reasoning is
	// truncated independently of agent text.
	textCharLimit     = 1500
	thinkingCharLimit = 400

	// Minimum substance for a session to be included: at least one user
	// turn and three total turns.
	minUserTurns  = 1
	minTotalTurns = 3
)

// noiseMarkers excludes origin-group directories created by platform
// temp-file machinery rather than real projects.
var noiseMarkers = []string{"tmp", "temp"}

// Collector scans a dated tree of per-session logs and packs the most
// corrective sessions into a byte budget.
type Collector struct {
	// SourceRoot contains one subdirectory per origin group (project),
	// each holding timestamp-named .jsonl session logs.
	SourceRoot string
	// LookbackDays is the number of whole calendar days before today to
	// scan. 1 means yesterday only.
	LookbackDays int
	// ByteBudget bounds the packed transcript text.
	ByteBudget int
	// Now is the clock; nil means time.Now. Injected for tests.
	Now func() time.Time
}

// Collect scans the source root and returns the packed evidence bundle.
// An empty or unreadable root yields an empty bundle, not an error.
func (c *Collector) Collect() Bundle {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	lookback := c.LookbackDays
	if lookback < 1 {
		lookback = 1
	}

	// Target dates are the lookback days ending yesterday; the skew day
	// is the calendar day immediately after the window.
	targets := make(map[string]bool, lookback)
	for i := 1; i <= lookback; i++ {
		targets[now.AddDate(0, 0, -i).Format("2006-01-02")] = true
	}
	skewDay := now.Format("2006-01-02")

	records, scanned := c.scan(targets, skewDay)

	// Rank by corrective density, ties broken by raw user turn count.
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Priority(), records[j].Priority()
		if pi != pj {
			return pi > pj
		}
		return records[i].UserTurns > records[j].UserTurns
	})

	// Pack front-greedy: skip any candidate that would overflow and keep
	// going. No reordering to fill gaps.
	var included []SessionRecord
	used := 0
	for _, rec := range records {
		need := rec.ByteSize + len(sessionSeparator)
		if used+need > c.ByteBudget {
			continue
		}
		included = append(included, rec)
		used += need
	}

	bundle := Bundle{
		SessionsScanned:  scanned,
		SessionsIncluded: len(included),
		Sessions:         included,
	}
	if len(included) == 0 {
		return bundle
	}

	userTurns := 0
	blocks := make([]string, 0, len(included))
	for _, rec := range included {
		userTurns += rec.UserTurns
		blocks = append(blocks, rec.Transcript)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Evidence: %d sessions scanned, %d substantive, %d included (%d user turns)\n\n",
		scanned, len(records), len(included), userTurns)
	b.WriteString(strings.Join(blocks, sessionSeparator))
	bundle.Text = b.String()
	return bundle
}

// scan walks every origin-group directory, extracting a SessionRecord for
// each substantive session log whose embedded timestamp matches one of the
// target dates (or the skew day before the early-morning cutoff). It
// returns the substantive records plus the total number of logs scanned.
func (c *Collector) scan(targets map[string]bool, skewDay string) ([]SessionRecord, int) {
	groups, err := os.ReadDir(c.SourceRoot)
	if err != nil {
		return nil, 0
	}

	var records []SessionRecord
	scanned := 0
	for _, group := range groups {
		if !group.IsDir() || isNoiseDir(group.Name()) {
			continue
		}
		dir := filepath.Join(c.SourceRoot, group.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), ".jsonl") {
				continue
			}
			stamp, ok := parseSessionStamp(file.Name())
			if !ok {
				continue
			}
			day := stamp.Format("2006-01-02")
			if !targets[day] && !(day == skewDay && stamp.Hour() < skewHourCutoff) {
				continue
			}

			scanned++
			rec, ok := c.extractRecord(filepath.Join(dir, file.Name()), group.Name(), stamp)
			if ok {
				records = append(records, rec)
			}
		}
	}
	return records, scanned
}

// extractRecord reads one session log and builds its record. Sessions
// below the substance thresholds are scanned but not recorded.
func (c *Collector) extractRecord(path, group string, stamp time.Time) (SessionRecord, bool) {
	var exchanges []Exchange
	for ex := range ExtractExchanges(path) {
		exchanges = append(exchanges, ex)
	}

	userTurns := 0
	for _, ex := range exchanges {
		if ex.Role == "user" {
			userTurns++
		}
	}
	if userTurns < minUserTurns || len(exchanges) < minTotalTurns {
		return SessionRecord{}, false
	}

	transcript := formatTranscript(group, stamp.Format("2006-01-02 15:04"), exchanges)
	return SessionRecord{
		OriginGroup: group,
		TimeLabel:   stamp.Format("2006-01-02 15:04"),
		UserTurns:   userTurns,
		TotalTurns:  len(exchanges),
		Transcript:  transcript,
		ByteSize:    len(transcript),
	}, true
}

// formatTranscript renders a session as a labeled block of per-exchange
// lines, truncating long text and reasoning independently.
func formatTranscript(group, timeLabel string, exchanges []Exchange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (%s)\n", sessionHeaderMarker, group, timeLabel)
	for _, ex := range exchanges {
		text := strings.TrimSpace(ex.Text)
		if text != "" {
			label := "Agent"
			if ex.Role == "user" {
				label = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, truncateChars(text, textCharLimit))
		}
		thinking := strings.TrimSpace(ex.Thinking)
		if thinking != "" {
			fmt.Fprintf(&b, "Agent [thinking]: %s\n", truncateChars(thinking, thinkingCharLimit))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateChars caps s at limit characters, appending a marker carrying
// the exact omitted character count.
func truncateChars(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + fmt.Sprintf("[...truncated, %d chars omitted]", len(runes)-limit)
}

// isNoiseDir reports whether a directory name looks like a platform
// temp-directory artifact rather than a project.
func isNoiseDir(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range noiseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// parseSessionStamp extracts the timestamp embedded in a session log name,
// e.g. "2026-08-25T14-30-22-a1b2.jsonl". A bare date prefix is accepted
// with the time taken as noon, which keeps it out of the skew-day match.
func parseSessionStamp(name string) (time.Time, bool) {
	if len(name) >= 19 {
		if t, err := time.Parse("2006-01-02T15-04-05", name[:19]); err == nil {
			return t, true
		}
	}
	if len(name) >= 10 {
		if t, err := time.Parse("2006-01-02", name[:10]); err == nil {
			return t.Add(12 * time.Hour), true
		}
	}
	return time.Time{}, false
}
