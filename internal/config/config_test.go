package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CheckIntervalMinutes != DefaultCheckIntervalMinutes {
		t.Errorf("expected default interval, got %d", cfg.CheckIntervalMinutes)
	}
	if len(cfg.SummaryTimes) != 2 {
		t.Errorf("expected default summary times, got %v", cfg.SummaryTimes)
	}
	if cfg.CurrentUserID != "" {
		t.Errorf("expected empty current user, got %s", cfg.CurrentUserID)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	original := &Config{
		Version:              "1",
		CurrentUserID:        "USER-001",
		DatabasePath:         "/tmp/escalator-test.db",
		CheckIntervalMinutes: 30,
		SummaryTimes:         []string{"10:30"},
	}
	if err := Save(dir, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.CurrentUserID != "USER-001" {
		t.Errorf("expected USER-001, got %s", loaded.CurrentUserID)
	}
	if loaded.CheckIntervalMinutes != 30 {
		t.Errorf("expected interval 30, got %d", loaded.CheckIntervalMinutes)
	}
	if len(loaded.SummaryTimes) != 1 || loaded.SummaryTimes[0] != "10:30" {
		t.Errorf("unexpected summary times: %v", loaded.SummaryTimes)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".escalator")

	if err := Save(dir, &Config{Version: "1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("config.json not written: %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for malformed config")
	}
}
