// Package config holds the read-once configuration snapshot for the
// pattern store. Only the binaries in cmd/ read the environment; core
// packages receive this struct (or fields from it) at construction and
// never consult the environment themselves.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the immutable configuration snapshot built at process start.
type Config struct {
	// StatePath is the directory holding patterns.db (default "state").
	StatePath string

	// KnowledgeRoot is the synced knowledge directory the repository
	// writer mirrors patterns into. Empty disables export.
	KnowledgeRoot string

	// DormancyThresholdDays drives the dormancy sweep: active patterns
	// unreinforced for longer than this become dormant.
	DormancyThresholdDays int

	// BusyTimeout bounds SQLite lock waits before a persistence error.
	BusyTimeout time.Duration

	// LockTimeout bounds the wait for the knowledge-dir advisory lock.
	LockTimeout time.Duration

	// ContextMaxPatterns bounds the rendered context block.
	ContextMaxPatterns int
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		StatePath:             "state",
		DormancyThresholdDays: 180,
		BusyTimeout:           5 * time.Second,
		LockTimeout:           5 * time.Second,
		ContextMaxPatterns:    20,
	}
}

// FromEnv builds a Config from the process environment on top of the
// defaults. Intended for use in cmd/ mains only.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("PATTERNBANK_STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("PATTERNBANK_KNOWLEDGE_ROOT"); v != "" {
		cfg.KnowledgeRoot = v
	}
	if v := os.Getenv("PATTERNBANK_DORMANCY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DormancyThresholdDays = n
		}
	}
	if v := os.Getenv("PATTERNBANK_BUSY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BusyTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("PATTERNBANK_CONTEXT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ContextMaxPatterns = n
		}
	}

	return cfg
}

// DormancyThreshold returns the sweep threshold as a duration.
func (c Config) DormancyThreshold() time.Duration {
	return time.Duration(c.DormancyThresholdDays) * 24 * time.Hour
}
