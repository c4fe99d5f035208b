// Package core holds the transaction domain model and the aggregation
// engine. Aggregation is pure: every summary is recomputed from the
// current ledger snapshot and nothing derived is ever persisted.
package core

import "fmt"

type (
	// Summary is the derived financial overview of a ledger snapshot.
	// History is the input ledger unchanged, returned so callers that need
	// both totals and the raw list get them in one call.
	Summary struct {
		Income  float64       `json:"income"`
		Expense float64       `json:"expense"`
		Balance float64       `json:"balance"`
		History []Transaction `json:"history"`
	}

	// DataIntegrityWarning reports a stored record whose data could not be
	// aggregated. The record's contribution is counted as zero; the summary
	// itself never fails.
	DataIntegrityWarning struct {
		ID     string `json:"id"`
		Field  string `json:"field"`
		Detail string `json:"detail"`
	}
)

// Summarize computes income, expense and net balance over the snapshot.
// Summation is plain float64 arithmetic, matching what the app has always
// displayed.
func Summarize(ledger []Transaction) (Summary, []DataIntegrityWarning) {
	s := Summary{History: ledger}
	if s.History == nil {
		s.History = []Transaction{}
	}
	var warnings []DataIntegrityWarning
	for _, t := range ledger {
		if !t.Amount.Valid() {
			warnings = append(warnings, DataIntegrityWarning{
				ID:     t.ID,
				Field:  "amount",
				Detail: "non-numeric amount counted as zero",
			})
			continue
		}
		switch t.Type {
		case TypeIncome:
			s.Income += float64(t.Amount)
		case TypeExpense:
			s.Expense += float64(t.Amount)
		default:
			warnings = append(warnings, DataIntegrityWarning{
				ID:     t.ID,
				Field:  "type",
				Detail: fmt.Sprintf("unknown type %q counted as zero", t.Type),
			})
		}
	}
	s.Balance = s.Income - s.Expense
	return s, warnings
}

// CategoryBreakdown groups expense records by category and sums their
// amounts. Records with an empty category land under Uncategorized.
// Map iteration order is unspecified; callers needing a stable display
// order must sort.
func CategoryBreakdown(ledger []Transaction) (map[string]float64, []DataIntegrityWarning) {
	totals := make(map[string]float64)
	var warnings []DataIntegrityWarning
	for _, t := range ledger {
		if t.Type != TypeExpense {
			continue
		}
		if !t.Amount.Valid() {
			warnings = append(warnings, DataIntegrityWarning{
				ID:     t.ID,
				Field:  "amount",
				Detail: "non-numeric amount counted as zero",
			})
			continue
		}
		category := t.Category
		if category == "" {
			category = Uncategorized
		}
		totals[category] += float64(t.Amount)
	}
	return totals, warnings
}
