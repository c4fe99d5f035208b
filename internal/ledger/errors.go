package ledger

import "fmt"

// PersistenceError wraps a failure of the underlying storage medium
// (corruption, serialization fault, rejected write). Callers decide whether
// to retry; the stores never retry on their own.
type PersistenceError struct {
	Op  string // "load" or "replace"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
