// Package ledger defines the persistence boundary beneath the transaction
// repository. The ledger is stored whole: one key holds the full ordered
// collection, and every mutation is a single read-modify-replace.
package ledger

import (
	"context"

	"budget/internal/core"
)

// Ports for the storage adapters.
type (
	Store interface {
		// Load returns the persisted ledger, newest-first. A ledger that has
		// never been written is an empty slice, not an error.
		Load(ctx context.Context) ([]core.Transaction, error)
		// Replace overwrites the entire persisted ledger. The write is atomic:
		// a subsequent Load observes either the previous or the new ledger,
		// never a partial one.
		Replace(ctx context.Context, all []core.Transaction) error
	}

	// SettingsStore persists presentation preferences (theme, currency).
	// These belong to the display layer; the ledger core never reads them.
	SettingsStore interface {
		// Setting returns the stored value, or "" when the key has never
		// been written.
		Setting(ctx context.Context, key string) (string, error)
		PutSetting(ctx context.Context, key, value string) error
	}
)

// Setting keys used by the display layer.
const (
	SettingTheme    = "theme"
	SettingCurrency = "currency"
)
