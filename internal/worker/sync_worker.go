// Package worker consumes ledger events and mirrors them to the export
// spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/export"
)

type SyncWorker struct {
	appender export.RowAppender
}

func NewSyncWorker(appender export.RowAppender) *SyncWorker {
	return &SyncWorker{appender: appender}
}

// HandleEvent processes one ledger event. Returning an error requeues the
// delivery, so only transient append failures should propagate.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Event {
	case amqp.EventCreated:
		ref, err := w.appender.Append(ctx, event.Transaction)
		if err != nil {
			return fmt.Errorf("append transaction %s: %w", event.Transaction.ID, err)
		}
		slog.InfoContext(ctx, "Transaction exported",
			"id", event.Transaction.ID,
			"row_ref", ref)
		return nil
	case amqp.EventDeleted:
		// Exported rows are an append-only history; deletions stay in the
		// sheet and are reconciled by id if anyone cares.
		slog.InfoContext(ctx, "Transaction deleted locally, sheet row kept",
			"id", event.Transaction.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", "event", event.Event)
		return nil
	}
}
