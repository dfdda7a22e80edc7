// Package snapshot persists payload-stripped ledger snapshots in a local
// bbolt file, the session-resumption analog of the browser's persisted
// storage: one bucket, one named entry, overwritten wholesale.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"viagem/internal/core"
)

const (
	bucketName = "ledger"
	entryKey   = "current"
)

type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the snapshot database at path, creating the
// parent directory when it does not exist yet.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save overwrites the single snapshot entry.
func (s *Store) Save(snap core.Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(entryKey), data)
	})
}

// Load reads the snapshot entry. ok is false when none has been saved yet.
func (s *Store) Load() (core.Snapshot, bool, error) {
	var snap core.Snapshot
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(entryKey))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return snap, found, nil
}

// Clear removes the snapshot entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(entryKey))
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
