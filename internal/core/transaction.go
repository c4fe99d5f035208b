package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Uncategorized is the label substituted for an empty category while
// grouping expenses. Stored records keep whatever category they were
// entered with; the substitution happens only at aggregation time.
const Uncategorized = "Uncategorized"

type (
	TransactionType string

	// Amount is a monetary magnitude. Direction (income vs expense) is
	// carried by the transaction type, never by the sign of the amount.
	Amount float64

	// Transaction is a single immutable ledger record. It is created once,
	// never edited, and removed only by id.
	Transaction struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Amount   Amount          `json:"amount"`
		Category string          `json:"category"`
		Type     TransactionType `json:"type"`
		Date     time.Time       `json:"date"`
	}

	// AddInput is the unvalidated form input for a new transaction. Amount
	// arrives as text exactly as the user typed it.
	AddInput struct {
		Title    string
		Amount   string
		Category string
		Type     string
	}
)

// ValidationError reports which input field failed a precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Valid reports whether the amount is a finite number. Records loaded from
// storage may carry anything a past writer put there.
func (a Amount) Valid() bool {
	v := float64(a)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UnmarshalJSON accepts both a JSON number and a quoted numeric string.
// Older persisted ledgers contain amounts in either shape. A value that
// cannot be parsed decodes to a non-finite amount instead of failing the
// whole ledger load; aggregation reports it and counts it as zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			*a = Amount(math.NaN())
			return nil
		}
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// ParseAmount parses user input into a finite amount. The magnitude is
// taken: a leading minus sign carries no meaning, direction comes from the
// transaction type.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Reason: "missing amount"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a finite number", s)}
	}
	return Amount(math.Abs(v)), nil
}

// ParseType normalizes the transaction type to its canonical lowercase
// form. Input casing is forgiven; anything other than income or expense is
// rejected.
func ParseType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeIncome, TypeExpense:
		return t, nil
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not income or expense", s)}
}

// NewTransaction validates the input and builds the record. The caller
// supplies the id and creation instant; both are fixed for the record's
// lifetime. Title and category are stored as entered, not normalized.
func NewTransaction(in AddInput, id string, now time.Time) (Transaction, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Transaction{}, &ValidationError{Field: "title", Reason: "empty title"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return Transaction{}, &ValidationError{Field: "category", Reason: "empty category"}
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseType(in.Type)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:       id,
		Title:    in.Title,
		Amount:   amount,
		Category: in.Category,
		Type:     typ,
		Date:     now.UTC(),
	}, nil
}
