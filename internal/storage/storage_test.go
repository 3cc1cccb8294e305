package storage

import (
	"testing"

	"github.com/bartekd/kropla/internal/pattern"
	"github.com/bartekd/kropla/internal/worm"
)

func TestAppendAndLoadMCStats(t *testing.T) {
	s, err := NewStorageAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorageAt: %v", err)
	}
	defer s.Close()

	if err := s.AppendMCStats(MCStatsEntry{Move: "dd", Visits: 100, Value: 0.6, ElapsedMs: 250}); err != nil {
		t.Fatalf("AppendMCStats: %v", err)
	}
	if err := s.AppendMCStats(MCStatsEntry{Move: "ee", Visits: 80, Value: 0.4, ElapsedMs: 200}); err != nil {
		t.Fatalf("AppendMCStats: %v", err)
	}

	entries, err := s.LoadAllMCStats()
	if err != nil {
		t.Fatalf("LoadAllMCStats: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Move != "dd" || entries[1].Move != "ee" {
		t.Errorf("expected append order preserved, got %+v", entries)
	}
}

func TestSaveAndLoadPatternTables(t *testing.T) {
	s, err := NewStorageAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorageAt: %v", err)
	}
	defer s.Close()

	tables := pattern.DefaultTables()
	tables.Register(0x1234, 5, -5)
	tables.RegisterSymm(0x1234, 3)

	if err := s.SavePatternTables(tables); err != nil {
		t.Fatalf("SavePatternTables: %v", err)
	}

	loaded, found, err := s.LoadPatternTables()
	if err != nil || !found {
		t.Fatalf("LoadPatternTables: found=%v err=%v", found, err)
	}
	if loaded.Value(worm.Black, 0x1234) != 5 {
		t.Errorf("expected cached black value 5, got %d", loaded.Value(worm.Black, 0x1234))
	}
}

func TestLoadCNNWeightsReportsNotFound(t *testing.T) {
	s, err := NewStorageAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorageAt: %v", err)
	}
	defer s.Close()

	if _, found, err := s.LoadCNNWeights("nope.bin"); err != nil || found {
		t.Errorf("expected not found, got found=%v err=%v", found, err)
	}

	if err := s.SaveCNNWeights("weights.bin", []byte{1, 2, 3}); err != nil {
		t.Fatalf("SaveCNNWeights: %v", err)
	}
	blob, found, err := s.LoadCNNWeights("weights.bin")
	if err != nil || !found {
		t.Fatalf("LoadCNNWeights: found=%v err=%v", found, err)
	}
	if len(blob) != 3 {
		t.Errorf("expected 3-byte blob, got %d", len(blob))
	}
}
