package inject

import (
	"strings"
	"testing"
	"time"

	"github.com/fernwood/patternbank/internal/store"
)

func pat(id, name, instruction string, status store.Status, weight float64, reinforced time.Time) *store.Pattern {
	return &store.Pattern{
		ID:             id,
		Category:       "verification",
		Name:           name,
		Instruction:    instruction,
		Status:         status,
		Weight:         weight,
		LastReinforced: reinforced,
	}
}

func TestRenderIncludesActiveExcludesOthers(t *testing.T) {
	now := time.Now()
	patterns := []*store.Pattern{
		pat("a", "Tests first", "Run tests before committing", store.StatusActive, 1.5, now),
		pat("b", "Reads errors fully", "Read the whole error before acting", store.StatusActive, 1.0, now),
		pat("c", "Old habit", "No longer relevant", store.StatusDormant, 1.8, now),
		pat("d", "Dead habit", "Retired", store.StatusRetired, 1.9, now),
	}

	out := Render(patterns, 0)

	for _, want := range []string{"Tests first", "Run tests before committing", "Reads errors fully"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered context missing %q", want)
		}
	}
	for _, bad := range []string{"Old habit", "Dead habit"} {
		if strings.Contains(out, bad) {
			t.Errorf("rendered context includes non-active pattern %q", bad)
		}
	}
}

func TestRenderOrdering(t *testing.T) {
	now := time.Now()
	patterns := []*store.Pattern{
		pat("light", "Light", "", store.StatusActive, 0.5, now),
		pat("heavy", "Heavy", "", store.StatusActive, 2.0, now.Add(-time.Hour)),
		pat("recent", "Recent", "", store.StatusActive, 0.5, now.Add(time.Minute)),
	}

	out := Render(patterns, 0)

	heavyIdx := strings.Index(out, "Heavy")
	recentIdx := strings.Index(out, "Recent")
	lightIdx := strings.Index(out, "Light")
	if heavyIdx > recentIdx || recentIdx > lightIdx {
		t.Errorf("ordering wrong: heavy=%d recent=%d light=%d\n%s", heavyIdx, recentIdx, lightIdx, out)
	}
}

func TestRenderDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)
	patterns := []*store.Pattern{
		pat("a", "Same weight A", "", store.StatusActive, 1.0, now),
		pat("b", "Same weight B", "", store.StatusActive, 1.0, now),
		pat("c", "Heavier", "", store.StatusActive, 1.2, now),
	}

	first := Render(patterns, 0)
	second := Render(patterns, 0)
	if first != second {
		t.Error("Render is not deterministic for identical input")
	}
}

func TestRenderBounded(t *testing.T) {
	now := time.Now()
	var patterns []*store.Pattern
	for i := 0; i < 50; i++ {
		patterns = append(patterns, pat("p", "Pattern", "do the thing", store.StatusActive, 1.0, now))
	}

	out := Render(patterns, 10)
	if n := strings.Count(out, "- **"); n != 10 {
		t.Errorf("rendered %d entries, want 10", n)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(nil, 0); out != "" {
		t.Errorf("Render(nil) = %q, want empty", out)
	}
	only := []*store.Pattern{pat("c", "Dormant", "", store.StatusDormant, 1.0, time.Now())}
	if out := Render(only, 0); out != "" {
		t.Errorf("Render(all dormant) = %q, want empty", out)
	}
}
