// Package evidence turns raw per-session agent logs into byte-bounded,
// priority-ordered transcript bundles suitable for reflection prompts.
package evidence

// Exchange is one turn in a session. Thinking carries the agent's
// reasoning trace and is only present on agent turns.
type Exchange struct {
	Role     string // "user" or "agent"
	Text     string
	Thinking string
}

// SessionRecord holds one session's extracted exchanges plus derived
// metrics. It is created once per scanned log file and never mutated.
type SessionRecord struct {
	OriginGroup string
	TimeLabel   string
	UserTurns   int
	TotalTurns  int
	Transcript  string
	ByteSize    int
}

// Priority approximates how much back-and-forth redirection happened in
// the session, a proxy for corrective content density.
func (s SessionRecord) Priority() float64 {
	total := s.TotalTurns
	if total < 1 {
		total = 1
	}
	return float64(s.UserTurns) / float64(total)
}

// Bundle is the unit passed from evidence gathering into the orchestrator.
// SessionsIncluded is always <= SessionsScanned. Sessions holds the
// included records in inclusion order, for batch splitting.
type Bundle struct {
	Text             string
	SessionsScanned  int
	SessionsIncluded int
	Sessions         []SessionRecord
}
