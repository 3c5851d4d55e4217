package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fernwood/patternbank/internal/confidence"
	"github.com/fernwood/patternbank/internal/store"
)

func setupTestWriter(t *testing.T) (*Writer, string, func()) {
	t.Helper()

	root, err := os.MkdirTemp("", "knowledge-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	w, err := NewWriter(root, 2*time.Second)
	if err != nil {
		os.RemoveAll(root)
		t.Fatalf("NewWriter failed: %v", err)
	}

	return w, root, func() { os.RemoveAll(root) }
}

func mirrorPattern() *store.Pattern {
	return &store.Pattern{
		ID:          "tests-first",
		Category:    "verification",
		Name:        "Runs tests before committing",
		Description: "Prefers a green suite before any commit.",
		Instruction: "Run the test suite before committing changes",
		Confidence:  confidence.High,
		Weight:      1.5,
	}
}

func TestWritePattern(t *testing.T) {
	w, root, cleanup := setupTestWriter(t)
	defer cleanup()

	path, err := w.WritePattern(mirrorPattern())
	if err != nil {
		t.Fatalf("WritePattern failed: %v", err)
	}

	want := filepath.Join(root, "_user", "patterns", "verification", "tests-first.md")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	text := string(content)
	for _, part := range []string{
		"category: verification",
		"confidence: high",
		"weight: 1.5",
		"# Runs tests before committing",
		"Run the test suite before committing changes",
	} {
		if !strings.Contains(text, part) {
			t.Errorf("written file missing %q:\n%s", part, text)
		}
	}

	// No temp file left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWritePatternOverwrites(t *testing.T) {
	w, _, cleanup := setupTestWriter(t)
	defer cleanup()

	p := mirrorPattern()
	if _, err := w.WritePattern(p); err != nil {
		t.Fatalf("first WritePattern failed: %v", err)
	}
	p.Instruction = "Updated instruction"
	path, err := w.WritePattern(p)
	if err != nil {
		t.Fatalf("second WritePattern failed: %v", err)
	}
	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "Updated instruction") {
		t.Error("overwrite did not update content")
	}
}

func TestRefusesSymlinkTarget(t *testing.T) {
	w, root, cleanup := setupTestWriter(t)
	defer cleanup()

	// External file the symlink points at
	outside, err := os.MkdirTemp("", "knowledge-outside-*")
	if err != nil {
		t.Fatalf("Failed to create outside dir: %v", err)
	}
	defer os.RemoveAll(outside)
	victim := filepath.Join(outside, "victim.md")
	if err := os.WriteFile(victim, []byte("original"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	dir := filepath.Join(root, "_user", "patterns", "verification")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.Symlink(victim, filepath.Join(dir, "tests-first.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err = w.WritePattern(mirrorPattern())
	if !errors.Is(err, ErrSecurity) {
		t.Fatalf("WritePattern = %v, want ErrSecurity", err)
	}

	// The external file must be untouched
	content, _ := os.ReadFile(victim)
	if string(content) != "original" {
		t.Errorf("external file was modified: %q", content)
	}
}

func TestRefusesSymlinkAncestor(t *testing.T) {
	w, root, cleanup := setupTestWriter(t)
	defer cleanup()

	outside, err := os.MkdirTemp("", "knowledge-outside-*")
	if err != nil {
		t.Fatalf("Failed to create outside dir: %v", err)
	}
	defer os.RemoveAll(outside)

	// _user/patterns/verification is a symlink to a directory outside the root
	if err := os.MkdirAll(filepath.Join(root, "_user", "patterns"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(root, "_user", "patterns", "verification")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := w.WritePattern(mirrorPattern()); !errors.Is(err, ErrSecurity) {
		t.Fatalf("WritePattern = %v, want ErrSecurity", err)
	}

	entries, _ := os.ReadDir(outside)
	if len(entries) != 0 {
		t.Errorf("bytes written through symlinked ancestor: %v", entries)
	}
}

func TestNewWriterRequiresExistingRoot(t *testing.T) {
	if _, err := NewWriter("", time.Second); err == nil {
		t.Error("NewWriter(\"\") succeeded, want error")
	}
	if _, err := NewWriter("/nonexistent/knowledge/root", time.Second); err == nil {
		t.Error("NewWriter with missing root succeeded, want error")
	}
}
