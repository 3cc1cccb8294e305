package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMergeFromAppliesFileOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(`{"workers":8,"komi":4}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := Default()
	found, err := mergeFrom(&cfg, path)
	if err != nil {
		t.Fatalf("mergeFrom: %v", err)
	}
	if !found {
		t.Fatal("expected file to be found")
	}
	if cfg.Workers != 8 || cfg.Komi != 4 {
		t.Errorf("expected overrides applied, got %+v", cfg)
	}
	if cfg.Iterations != Default().Iterations {
		t.Errorf("expected untouched field to keep its default, got %d", cfg.Iterations)
	}
}

func TestMergeFromMissingFileIsNotAnError(t *testing.T) {
	cfg := Default()
	found, err := mergeFrom(&cfg, filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if found {
		t.Error("expected found=false for a missing file")
	}
}

func TestHasSaveMCConfig(t *testing.T) {
	dir := t.TempDir()
	if HasSaveMCConfig(dir) {
		t.Error("expected no savemc.config in an empty dir")
	}
	if err := os.WriteFile(filepath.Join(dir, "savemc.config"), nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !HasSaveMCConfig(dir) {
		t.Error("expected savemc.config to be detected")
	}
}
