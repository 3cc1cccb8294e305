// Package storage persists the optional per-move statistics log (spec §6
// "Persisted state", the mcstats.txt equivalent) and caches the compiled
// pattern tables and CNN weight blobs on disk, backed by BadgerDB.
// Grounded on the teacher's internal/storage package for the
// platform-specific data directory lookup and the open/close/View/Update
// wrapper shape.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "kropla"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/kropla/
// - Linux: ~/.local/share/kropla/
// - Windows: %APPDATA%/kropla/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		// macOS: ~/Library/Application Support/
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		// Windows: %APPDATA%
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: ~/.local/share/
		// Check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetCNNWeightsDir returns the directory for caching CNN weight assets
// (spec §4.M), mirroring the teacher's GetNNUEDir.
func GetCNNWeightsDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(dataDir, "cnn")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	log.Printf("[Storage] database directory: %s", dbDir)

	return dbDir, nil
}
