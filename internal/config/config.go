// Package config implements spec Part B.3: file-based discovery of
// kropla.json next to the binary, then in the OS data dir, falling back
// to defaults. Grounded on the teacher's internal/storage package
// (GetDataDir's platform-specific directory logic), adapted from a fixed
// BadgerDB subdirectory lookup to a single settings file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bartekd/kropla/internal/storage"
)

// FileName is the settings file name looked up next to the binary and in
// the OS data directory.
const FileName = "kropla.json"

// Config holds the tunables spec.md §5-6 exposes to the CLI: worker
// count, iteration/time budget, komi, CNN weight path, and the
// savemc.config-equivalent persistence toggle.
type Config struct {
	Workers       int    `json:"workers"`
	Iterations    int64  `json:"iterations"`
	Msec          int64  `json:"msec"`
	Komi          int    `json:"komi"`
	CNNWeightPath string `json:"cnn_weight_path"`
	SaveMCStats   bool   `json:"save_mc_stats"`
}

// Default returns the built-in fallback configuration.
func Default() Config {
	return Config{
		Workers:    4,
		Iterations: 20000,
		Msec:       5000,
		Komi:       0,
	}
}

// Load looks for kropla.json next to the running binary, then in the OS
// data directory (storage.GetDataDir), then falls back to Default. A
// malformed file is a parse error, not silently ignored, but a missing
// file at either location is not an error.
func Load() (Config, error) {
	cfg := Default()

	if exe, err := os.Executable(); err == nil {
		if ok, err := mergeFrom(&cfg, filepath.Join(filepath.Dir(exe), FileName)); err != nil {
			return cfg, err
		} else if ok {
			return cfg, nil
		}
	}

	dataDir, err := storage.GetDataDir()
	if err != nil {
		return cfg, nil
	}
	if _, err := mergeFrom(&cfg, filepath.Join(dataDir, FileName)); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeFrom reads path and unmarshals it over cfg in place, reporting
// whether the file existed.
func mergeFrom(cfg *Config, path string) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return true, err
	}
	return true, nil
}

// HasSaveMCConfig reports whether a savemc.config file exists in dir,
// matching spec §6's "Persisted state: ... appended on
// every move when a sibling file savemc.config exists".
func HasSaveMCConfig(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "savemc.config"))
	return err == nil
}
