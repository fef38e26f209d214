package persistence

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketSnapshots = []byte("snapshots")

// BoltStore is the reference Store implementation, grounded on the same
// single-file embedded-transactional pattern used elsewhere in this
// module: one bucket, rows JSON-encoded and keyed by actor id.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if absent) a BoltDB file under dataDir.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "statemesh.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("statemesh: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("statemesh: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Save upserts row under its own id.
func (s *BoltStore) Save(row Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("statemesh: marshal row %q: %w", row.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(row.ID), data)
	})
}

// Load returns the row saved for id, or ok=false if none was ever saved.
func (s *BoltStore) Load(id string) (Row, bool, error) {
	var row Row
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSnapshots).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &row)
	})
	if err != nil {
		return Row{}, false, fmt.Errorf("statemesh: unmarshal row %q: %w", id, err)
	}
	return row, found, nil
}

// Delete removes id's row, if any. Deleting an absent id is a no-op.
func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte(id))
	})
}
