package query

import (
	"sort"

	"excelsaver/internal/domain"
)

// SortByDateDesc orders invoices by resolved issue date, newest first,
// without touching the input. Invoices with an unresolvable date sort
// after every dated invoice instead of being dropped. The sort is stable,
// so equal instants (and the invalid tail) keep their input order.
func SortByDateDesc(invs []domain.Invoice) []domain.Invoice {
	out := append([]domain.Invoice(nil), invs...)
	sort.SliceStable(out, func(i, j int) bool {
		a := out[i].IssueDate.Resolve()
		b := out[j].IssueDate.Resolve()
		switch {
		case a.Valid && !b.Valid:
			return true
		case !a.Valid:
			return false
		default:
			return a.After(b.Time)
		}
	})
	return out
}

// Page is one slice of a collection plus the page count for the whole
// collection.
type Page struct {
	Items      []domain.Invoice
	TotalPages int
}

// Paginate slices invs into fixed-size pages and returns page number
// `page` (1-based). TotalPages is at least 1 even for an empty
// collection. Page numbers are not clamped here; an out-of-range page
// yields an empty slice, not an error. A pageSize below 1 is treated
// as 1 so the page math stays defined.
func Paginate(invs []domain.Invoice, pageSize, page int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	total := (len(invs) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}

	start := (page - 1) * pageSize
	if page < 1 || start >= len(invs) {
		return Page{Items: []domain.Invoice{}, TotalPages: total}
	}
	end := start + pageSize
	if end > len(invs) {
		end = len(invs)
	}
	return Page{
		Items:      append([]domain.Invoice(nil), invs[start:end]...),
		TotalPages: total,
	}
}
