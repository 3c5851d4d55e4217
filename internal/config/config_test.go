package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.StatePath != "state" {
		t.Errorf("StatePath = %q, want \"state\"", cfg.StatePath)
	}
	if cfg.DormancyThresholdDays != 180 {
		t.Errorf("DormancyThresholdDays = %d, want 180", cfg.DormancyThresholdDays)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Errorf("BusyTimeout = %v, want 5s", cfg.BusyTimeout)
	}
	if cfg.DormancyThreshold() != 180*24*time.Hour {
		t.Errorf("DormancyThreshold() = %v", cfg.DormancyThreshold())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PATTERNBANK_STATE_PATH", "/tmp/pb-state")
	t.Setenv("PATTERNBANK_KNOWLEDGE_ROOT", "/tmp/pb-knowledge")
	t.Setenv("PATTERNBANK_DORMANCY_DAYS", "90")
	t.Setenv("PATTERNBANK_BUSY_TIMEOUT_MS", "2500")
	t.Setenv("PATTERNBANK_CONTEXT_MAX", "7")

	cfg := FromEnv()
	if cfg.StatePath != "/tmp/pb-state" {
		t.Errorf("StatePath = %q", cfg.StatePath)
	}
	if cfg.KnowledgeRoot != "/tmp/pb-knowledge" {
		t.Errorf("KnowledgeRoot = %q", cfg.KnowledgeRoot)
	}
	if cfg.DormancyThresholdDays != 90 {
		t.Errorf("DormancyThresholdDays = %d", cfg.DormancyThresholdDays)
	}
	if cfg.BusyTimeout != 2500*time.Millisecond {
		t.Errorf("BusyTimeout = %v", cfg.BusyTimeout)
	}
	if cfg.ContextMaxPatterns != 7 {
		t.Errorf("ContextMaxPatterns = %d", cfg.ContextMaxPatterns)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("PATTERNBANK_DORMANCY_DAYS", "not-a-number")
	t.Setenv("PATTERNBANK_BUSY_TIMEOUT_MS", "-5")

	cfg := FromEnv()
	if cfg.DormancyThresholdDays != 180 {
		t.Errorf("garbage dormancy days accepted: %d", cfg.DormancyThresholdDays)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Errorf("negative busy timeout accepted: %v", cfg.BusyTimeout)
	}
}
