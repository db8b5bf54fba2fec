package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMigratesLegacyTimeoutSentinels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	cfg.Loop.IterationTimeoutMs = legacyIterationTimeoutMs
	cfg.Loop.IdleTimeoutMs = legacyIdleTimeoutMs
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Loop.IterationTimeoutMs != 0 {
		t.Errorf("expected IterationTimeoutMs migrated to 0, got %d", loaded.Loop.IterationTimeoutMs)
	}
	if loaded.Loop.IdleTimeoutMs != 0 {
		t.Errorf("expected IdleTimeoutMs migrated to 0, got %d", loaded.Loop.IdleTimeoutMs)
	}

	// Reloading again must be stable (already migrated, no re-rewrite needed).
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if reloaded.Loop.IterationTimeoutMs != 0 || reloaded.Loop.IdleTimeoutMs != 0 {
		t.Errorf("migration did not persist across reload")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	cfg.Loop.DefaultCLI = "codex"
	cfg.Loop.LogRetentionDays = 30
	cfg.Loop.IterationTimeoutMs = 45000
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Loop.DefaultCLI != "codex" || loaded.Loop.LogRetentionDays != 30 || loaded.Loop.IterationTimeoutMs != 45000 {
		t.Errorf("round trip mismatch: %+v", loaded.Loop)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for invalid log level")
	}
}
