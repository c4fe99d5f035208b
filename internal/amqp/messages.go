package amqp

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// Ledger event names.
const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// TransactionEvent is published after a ledger mutation has been persisted.
// It carries the full record: consumers must not open the data file, which
// stays locked by the serving process.
type TransactionEvent struct {
	Event       string           `json:"event"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

func NewTransactionEvent(event string, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Event:       event,
		Transaction: tx,
		Timestamp:   time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
