// Package query narrows, orders, and slices invoice collections. Every
// function is pure: inputs are never mutated and reapplying the same
// inputs yields identical output.
package query

import (
	"strings"
	"time"

	"excelsaver/internal/domain"
)

// Predicate decides whether an invoice matches the active filters.
type Predicate func(*domain.Invoice) bool

// DateRange is an inclusive issue-date filter. A nil End means a
// single-day range ending on the same calendar day as Start.
type DateRange struct {
	Start time.Time
	End   *time.Time
}

// BuildPredicate combines a free-text search and an optional date range
// into one predicate. Both default to always-true when unset, so no
// filters means the identity filter.
//
// The text match is a case-insensitive substring test against the
// counterparty name or the invoice number. The range comparison truncates
// its bounds to day granularity (start-of-day lower, end-of-day upper) so
// a record's time-of-day never excludes it from its own calendar day.
// Invoices whose date does not resolve always fail the range check but
// still pass text-only filtering.
func BuildPredicate(search string, dr *DateRange) Predicate {
	term := strings.ToLower(strings.TrimSpace(search))

	var lower, upper time.Time
	if dr != nil {
		lower = startOfDay(dr.Start)
		end := dr.Start
		if dr.End != nil {
			end = *dr.End
		}
		upper = endOfDay(end)
	}

	return func(inv *domain.Invoice) bool {
		if term != "" &&
			!strings.Contains(strings.ToLower(inv.CounterpartyName), term) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), term) {
			return false
		}
		if dr != nil {
			inst := inv.IssueDate.Resolve()
			if !inst.Valid {
				return false
			}
			if inst.Before(lower) || inst.After(upper) {
				return false
			}
		}
		return true
	}
}

// Filter returns the invoices accepted by pred, in input order, as a new
// slice.
func Filter(invs []domain.Invoice, pred Predicate) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(invs))
	for i := range invs {
		if pred(&invs[i]) {
			out = append(out, invs[i])
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
