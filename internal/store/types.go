package store

import (
	"time"

	"github.com/fernwood/patternbank/internal/confidence"
)

// Status is the lifecycle state of a pattern.
type Status string

const (
	// StatusActive patterns are eligible for context injection.
	StatusActive Status = "active"

	// StatusDormant is set by the dormancy sweep when a pattern goes
	// unreinforced past the threshold. Reactivation is an explicit
	// caller decision, never automatic.
	StatusDormant Status = "dormant"

	// StatusRetired is terminal unless a caller explicitly reactivates.
	StatusRetired Status = "retired"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusDormant || s == StatusRetired
}

// Pattern is one inferred behavioral rule.
type Pattern struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	SessionRefs    []string        `json:"session_refs"` // ordered, JSON-serialized in storage
	Confidence     confidence.Tier `json:"confidence"`
	Weight         float64         `json:"weight"` // always within [0, confidence.WeightCap]
	SessionCount   int             `json:"session_count"`
	ProjectCount   int             `json:"project_count"`
	Instruction    string          `json:"instruction"`
	Status         Status          `json:"status"`
	FirstSeen      time.Time       `json:"first_seen"`      // set once, never overwritten
	LastReinforced time.Time       `json:"last_reinforced"` // bumped on every write
}

// Evidence links a pattern to one observed occurrence. Append-only;
// retained even after the parent pattern is retired.
type Evidence struct {
	PatternID  string    `json:"pattern_id"`
	SessionID  string    `json:"session_id"`
	Project    string    `json:"project"`
	Snippet    string    `json:"snippet"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ExtractionLogEntry is one audit row per extraction run.
type ExtractionLogEntry struct {
	ExtractedAt     time.Time `json:"extracted_at"`
	SessionCount    int       `json:"session_count"`
	PatternsCreated int       `json:"patterns_created"`
	PatternsUpdated int       `json:"patterns_updated"`
	PatternsRetired int       `json:"patterns_retired"`
	Model           string    `json:"model"`
}

// Filter narrows List results. Zero-value fields match everything.
type Filter struct {
	Status   Status
	Category string
}

// Stats holds aggregate counts for observability tooling.
type Stats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Dormant    int            `json:"dormant"`
	Retired    int            `json:"retired"`
	ByCategory map[string]int `json:"by_category"`
}
