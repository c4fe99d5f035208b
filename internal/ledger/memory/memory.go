// Package memory is the in-memory ledger store, used by tests and by the
// memory backend for running without a data file.
package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	items    []core.Transaction
	settings map[string]string
}

var (
	_ ledger.Store         = (*Store)(nil)
	_ ledger.SettingsStore = (*Store)(nil)
)

func New() *Store {
	return &Store{settings: make(map[string]string)}
}

// Load returns a copy of the current ledger. Callers hold snapshots, not
// handles: mutating the returned slice never touches the store.
func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...), nil
}

func (s *Store) Replace(_ context.Context, all []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction{}, all...)
	return nil
}

func (s *Store) Setting(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[key], nil
}

func (s *Store) PutSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}
