// Package inject renders the active-pattern subset into the bounded text
// block consumed at session start. Rendering is deterministic: the same
// stored state always produces the same text.
package inject

import (
	"sort"
	"strings"

	"github.com/fernwood/patternbank/internal/store"
)

// DefaultMaxPatterns bounds the rendered block when the caller passes a
// non-positive limit.
const DefaultMaxPatterns = 20

const heading = "## Observed working patterns"

// Render produces the context block for the given patterns. Only active
// patterns are included, ordered by weight descending with the most
// recently reinforced first on ties, truncated to maxPatterns. Pure: no
// clock, no I/O.
func Render(patterns []*store.Pattern, maxPatterns int) string {
	if maxPatterns <= 0 {
		maxPatterns = DefaultMaxPatterns
	}

	active := make([]*store.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Status == store.StatusActive {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return ""
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Weight != active[j].Weight {
			return active[i].Weight > active[j].Weight
		}
		return active[i].LastReinforced.After(active[j].LastReinforced)
	})
	if len(active) > maxPatterns {
		active = active[:maxPatterns]
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, p := range active {
		b.WriteString("- **")
		b.WriteString(p.Name)
		b.WriteString("**")
		if p.Instruction != "" {
			b.WriteString(": ")
			b.WriteString(strings.TrimSpace(p.Instruction))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Build lists active patterns from the store and renders them.
func Build(s *store.Store, maxPatterns int) (string, error) {
	patterns, err := s.List(store.Filter{Status: store.StatusActive})
	if err != nil {
		return "", err
	}
	return Render(patterns, maxPatterns), nil
}
