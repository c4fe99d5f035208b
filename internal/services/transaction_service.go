// Package services implements the transaction repository: validated
// mutation and retrieval of ledger records on top of a ledger store.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/ledger"
)

// TransactionService owns id and timestamp assignment. It assumes a single
// logical writer: operations are sequential read-modify-replace against the
// one persisted ledger key, with no locking.
type TransactionService struct {
	store  ledger.Store
	events *amqp.Client // nil disables event publishing

	newID func() string
	now   func() time.Time
}

func NewTransactionService(store ledger.Store, events *amqp.Client) *TransactionService {
	return &TransactionService{
		store:  store,
		events: events,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// List returns the current ledger, newest-first as persisted.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.Load(ctx)
}

// Add validates the input, assigns a fresh id and creation instant, and
// prepends the record to the ledger. A validation failure never touches the
// store; a failed replace means the candidate record never existed.
func (s *TransactionService) Add(ctx context.Context, in core.AddInput) (core.Transaction, error) {
	tx, err := core.NewTransaction(in, s.newID(), s.now())
	if err != nil {
		return core.Transaction{}, err
	}

	current, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load ledger: %w", err)
	}

	updated := make([]core.Transaction, 0, len(current)+1)
	updated = append(updated, tx)
	updated = append(updated, current...)
	if err := s.store.Replace(ctx, updated); err != nil {
		return core.Transaction{}, fmt.Errorf("persist ledger: %w", err)
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", string(tx.Type),
		"amount", float64(tx.Amount),
		"category", tx.Category)

	s.publish(ctx, amqp.EventCreated, tx)
	return tx, nil
}

// Remove deletes the record with the given id. Removing an id that is
// already absent is a success: the client's pattern is delete, then
// refresh, and a retry must not fail.
func (s *TransactionService) Remove(ctx context.Context, id string) error {
	current, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	filtered := make([]core.Transaction, 0, len(current))
	var removed *core.Transaction
	for _, t := range current {
		if t.ID == id {
			r := t
			removed = &r
			continue
		}
		filtered = append(filtered, t)
	}

	if err := s.store.Replace(ctx, filtered); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}

	if removed == nil {
		slog.DebugContext(ctx, "Transaction already absent", "id", id)
		return nil
	}

	slog.InfoContext(ctx, "Transaction removed", "id", id)
	s.publish(ctx, amqp.EventDeleted, *removed)
	return nil
}

// Summarize computes totals over the current snapshot.
func (s *TransactionService) Summarize(ctx context.Context) (core.Summary, []core.DataIntegrityWarning, error) {
	current, err := s.store.Load(ctx)
	if err != nil {
		return core.Summary{}, nil, fmt.Errorf("load ledger: %w", err)
	}
	summary, warnings := core.Summarize(current)
	return summary, warnings, nil
}

// CategoryBreakdown groups expenses by category over the current snapshot.
func (s *TransactionService) CategoryBreakdown(ctx context.Context) (map[string]float64, []core.DataIntegrityWarning, error) {
	current, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	totals, warnings := core.CategoryBreakdown(current)
	return totals, warnings, nil
}

// publish is best-effort: the mutation is already durable, a broker outage
// must not fail the request.
func (s *TransactionService) publish(ctx context.Context, event string, tx core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(event, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event", event,
			"id", tx.ID,
			"error", err)
	}
}
