package amqp

import (
	"testing"
	"time"

	"budget/internal/core"
)

func TestTransactionEventRoundtrip(t *testing.T) {
	tx := core.Transaction{
		ID:       "abc-123",
		Title:    "Coffee",
		Amount:   3.5,
		Category: "Food",
		Type:     core.TypeExpense,
		Date:     time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	event := NewTransactionEvent(EventCreated, tx)
	if event.Timestamp.IsZero() {
		t.Fatalf("timestamp should be set")
	}

	raw, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := TransactionEventFromJSON(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Event != EventCreated {
		t.Fatalf("event = %q", parsed.Event)
	}
	if parsed.Transaction.ID != tx.ID || parsed.Transaction.Type != core.TypeExpense {
		t.Fatalf("transaction mangled: %+v", parsed.Transaction)
	}
	if float64(parsed.Transaction.Amount) != 3.5 {
		t.Fatalf("amount mangled: %v", parsed.Transaction.Amount)
	}
}

func TestTransactionEventFromInvalidJSON(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{broken")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
