// Package storage provides persistent storage for the optional per-move
// statistics log and the compiled pattern-table / CNN-weight caches
// (SPEC_FULL.md Part C), backed by BadgerDB exactly the way the teacher's
// internal/storage wraps it for preferences/stats.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/bartekd/kropla/internal/pattern"
)

// Storage keys / key prefixes.
const (
	keyPatternTable  = "pattern_table"
	keyCNNWeights    = "cnn_weights:" // + weight-file path
	prefixMCStats    = "mcstats:"     // + zero-padded sequence number
	keyMCStatsNextID = "mcstats_next_id"
)

// MCStatsEntry is one line of the mcstats.txt-equivalent log (spec §6,
// SPEC_FULL.md Part D item 2): move played, MCTS visit count and value at
// the moment it was chosen, and how long the search round took.
type MCStatsEntry struct {
	Move      string `json:"move"` // SGF coordinate
	Visits    int64  `json:"visits"`
	Value     float64 `json:"value"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the BadgerDB database under
// GetDatabaseDir.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return NewStorageAt(dbDir)
}

// NewStorageAt opens a BadgerDB database at an explicit directory,
// bypassing the OS data-dir lookup; used by tests and by callers that
// already resolved a directory via internal/config.
func NewStorageAt(dbDir string) (*Storage, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AppendMCStats appends one entry to the per-move statistics log, matching
// spec §6's "appended on every move when a sibling file savemc.config
// exists" — callers gate this on config.HasSaveMCConfig themselves.
func (s *Storage) AppendMCStats(entry MCStatsEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		seq, err := s.nextMCStatsID(txn)
		if err != nil {
			return err
		}
		return txn.Set([]byte(fmt.Sprintf("%s%020d", prefixMCStats, seq)), data)
	})
}

func (s *Storage) nextMCStatsID(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(keyMCStatsNextID))
	var next uint64
	if err == nil {
		if err := item.Value(func(val []byte) error {
			next = binary.BigEndian.Uint64(val)
			return nil
		}); err != nil {
			return 0, err
		}
	} else if err != badger.ErrKeyNotFound {
		return 0, err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next+1)
	if err := txn.Set([]byte(keyMCStatsNextID), buf); err != nil {
		return 0, err
	}
	return next, nil
}

// LoadAllMCStats returns every logged entry in append order.
func (s *Storage) LoadAllMCStats() ([]MCStatsEntry, error) {
	var out []MCStatsEntry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(prefixMCStats)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry MCStatsEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			out = append(out, entry)
		}
		return nil
	})
	return out, err
}

// SavePatternTables caches the compiled pattern tables so they are not
// recompiled from the asset file on every process start (spec Part C).
func (s *Storage) SavePatternTables(t *pattern.Tables) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPatternTable), data)
	})
}

// LoadPatternTables loads the cached pattern tables, returning
// found=false if none were ever cached.
func (s *Storage) LoadPatternTables() (t *pattern.Tables, found bool, err error) {
	t = pattern.DefaultTables()
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPatternTable))
		if err == badger.ErrKeyNotFound {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return t.UnmarshalBinary(val)
		})
	})
	return t, found, err
}

// SaveCNNWeights caches a loaded CNN weight blob under its source path, so
// a subsequent process start can skip re-reading the asset file.
func (s *Storage) SaveCNNWeights(path string, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyCNNWeights+path), blob)
	})
}

// LoadCNNWeights returns the cached blob for path, if any.
func (s *Storage) LoadCNNWeights(path string) (blob []byte, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyCNNWeights + path))
		if err == badger.ErrKeyNotFound {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			blob = append([]byte(nil), val...)
			return nil
		})
	})
	return blob, found, err
}
