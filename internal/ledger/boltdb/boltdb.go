// Package boltdb persists the ledger in a local bbolt database. The whole
// transaction list lives under a single key as a JSON array, so a replace
// is one bucket put inside one write transaction.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"budget/internal/core"
	"budget/internal/ledger"
)

// Bucket and key layout. The record shape is unversioned: any structural
// change to Transaction is a breaking change to existing data files.
const (
	bucketLedger    = "ledger"
	bucketSettings  = "settings"
	keyTransactions = "transactions"
)

type Store struct {
	db *bolt.DB
}

var (
	_ ledger.Store         = (*Store)(nil)
	_ ledger.SettingsStore = (*Store)(nil)
)

// New opens (creating if needed) the database file and initializes buckets.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketLedger, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements ledger.Store. A missing key is an empty ledger.
func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(bucketLedger)).Get([]byte(keyTransactions)); data != nil {
			// Copy: the slice is only valid during the transaction.
			raw = make([]byte, len(data))
			copy(raw, data)
		}
		return nil
	})
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Err: err}
	}
	if raw == nil {
		return []core.Transaction{}, nil
	}
	var all []core.Transaction
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Err: fmt.Errorf("decode ledger: %w", err)}
	}
	return all, nil
}

// Replace implements ledger.Store.
func (s *Store) Replace(_ context.Context, all []core.Transaction) error {
	if all == nil {
		all = []core.Transaction{}
	}
	raw, err := json.Marshal(all)
	if err != nil {
		return &ledger.PersistenceError{Op: "replace", Err: fmt.Errorf("encode ledger: %w", err)}
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketLedger)).Put([]byte(keyTransactions), raw)
	})
	if err != nil {
		return &ledger.PersistenceError{Op: "replace", Err: err}
	}
	return nil
}

// Setting implements ledger.SettingsStore.
func (s *Store) Setting(_ context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(bucketSettings)).Get([]byte(key)); data != nil {
			value = string(data)
		}
		return nil
	})
	if err != nil {
		return "", &ledger.PersistenceError{Op: "load", Err: err}
	}
	return value, nil
}

// PutSetting implements ledger.SettingsStore.
func (s *Store) PutSetting(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSettings)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return &ledger.PersistenceError{Op: "replace", Err: err}
	}
	return nil
}
