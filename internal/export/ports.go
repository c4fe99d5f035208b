// Package export defines the outbound port for mirroring ledger records to
// an external spreadsheet.
package export

import (
	"context"

	"budget/internal/core"
)

// RowAppender appends one transaction as a row and returns a reference to
// where it landed.
type RowAppender interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}
