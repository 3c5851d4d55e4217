package store

import (
	"testing"
	"time"
)

func TestDormancySweep(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	stale := testPattern("stale")
	fresh := testPattern("fresh")
	for _, p := range []*Pattern{stale, fresh} {
		if _, err := s.Write(p); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	// Age the stale pattern past a 180-day threshold
	old := time.Now().UTC().Add(-200 * 24 * time.Hour)
	if err := s.TestSetLastReinforced("stale", old); err != nil {
		t.Fatalf("TestSetLastReinforced failed: %v", err)
	}

	threshold := 180 * 24 * time.Hour
	n, err := s.EnforceDormancy(threshold)
	if err != nil {
		t.Fatalf("EnforceDormancy failed: %v", err)
	}
	if n != 1 {
		t.Errorf("transition count = %d, want 1", n)
	}

	got, err := s.Read("stale")
	if err != nil || got == nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Status != StatusDormant {
		t.Errorf("stale status = %s, want dormant", got.Status)
	}

	freshGot, err := s.Read("fresh")
	if err != nil || freshGot == nil {
		t.Fatalf("Read failed: %v", err)
	}
	if freshGot.Status != StatusActive {
		t.Errorf("fresh status = %s, want active", freshGot.Status)
	}
}

func TestDormancySweepIdempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := s.Write(testPattern("stale")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	old := time.Now().UTC().Add(-400 * 24 * time.Hour)
	if err := s.TestSetLastReinforced("stale", old); err != nil {
		t.Fatalf("TestSetLastReinforced failed: %v", err)
	}

	threshold := 180 * 24 * time.Hour
	if n, err := s.EnforceDormancy(threshold); err != nil || n != 1 {
		t.Fatalf("first sweep: n=%d err=%v", n, err)
	}
	if n, err := s.EnforceDormancy(threshold); err != nil || n != 0 {
		t.Errorf("second sweep: n=%d err=%v, want 0 nil", n, err)
	}
}

func TestDormantReactivation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := s.Write(testPattern("stale")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	old := time.Now().UTC().Add(-400 * 24 * time.Hour)
	if err := s.TestSetLastReinforced("stale", old); err != nil {
		t.Fatalf("TestSetLastReinforced failed: %v", err)
	}
	if _, err := s.EnforceDormancy(180 * 24 * time.Hour); err != nil {
		t.Fatalf("EnforceDormancy failed: %v", err)
	}

	// A reinforcing write alone does not flip status back
	if _, err := s.Write(testPattern("stale")); err != nil {
		t.Fatalf("reinforcing Write failed: %v", err)
	}
	p, _ := s.Read("stale")
	if p.Status != StatusDormant {
		t.Errorf("status after write = %s, want dormant (reactivation is explicit)", p.Status)
	}

	// Explicit reactivation does
	if err := s.Reactivate("stale"); err != nil {
		t.Fatalf("Reactivate failed: %v", err)
	}
	p, _ = s.Read("stale")
	if p.Status != StatusActive {
		t.Errorf("status after Reactivate = %s, want active", p.Status)
	}
}
