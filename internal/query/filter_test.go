package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excelsaver/internal/domain"
	"excelsaver/internal/query"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildPredicate_Identity(t *testing.T) {
	pred := query.BuildPredicate("", nil)

	invs := []domain.Invoice{
		{InvoiceNumber: "INV-1", CounterpartyName: "Acme"},
		{InvoiceNumber: "INV-2", IssueDate: domain.DateFromString("not a date")},
		{},
	}
	for i := range invs {
		assert.True(t, pred(&invs[i]), "invoice %d", i)
	}

	// whitespace-only search is still the identity
	blank := query.BuildPredicate("   ", nil)
	assert.True(t, blank(&invs[0]))
}

func TestBuildPredicate_TextSearch(t *testing.T) {
	invs := []domain.Invoice{
		{InvoiceNumber: "INV-2024-001", CounterpartyName: "Acme Corp"},
		{InvoiceNumber: "FAC-77", CounterpartyName: "Birch & Sons"},
	}

	tests := []struct {
		search string
		want   []bool
	}{
		{"acme", []bool{true, false}},
		{"ACME", []bool{true, false}},
		{"inv-2024", []bool{true, false}},
		{"77", []bool{false, true}},
		{"zzz", []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			pred := query.BuildPredicate(tt.search, nil)
			for i := range invs {
				assert.Equal(t, tt.want[i], pred(&invs[i]), "invoice %d", i)
			}
		})
	}
}

func TestBuildPredicate_DateRangeInclusive(t *testing.T) {
	end := day(2024, 6, 30)
	dr := &query.DateRange{Start: day(2024, 6, 1), End: &end}
	pred := query.BuildPredicate("", dr)

	tests := []struct {
		name string
		date domain.RawDate
		want bool
	}{
		{"inside", domain.DateFromString("2024-06-15"), true},
		{"on start day", domain.DateFromString("2024-06-01"), true},
		{"on end day, late in the day", domain.DateFromTime(time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)), true},
		{"one day after end", domain.DateFromString("2024-07-01"), false},
		{"one day before start", domain.DateFromString("2024-05-31"), false},
		{"invalid date always fails the range", domain.DateFromString("???"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Invoice{IssueDate: tt.date}
			assert.Equal(t, tt.want, pred(&inv))
		})
	}
}

func TestBuildPredicate_StartOnlyIsSingleDay(t *testing.T) {
	pred := query.BuildPredicate("", &query.DateRange{Start: day(2024, 6, 15)})

	same := domain.Invoice{IssueDate: domain.DateFromTime(time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC))}
	next := domain.Invoice{IssueDate: domain.DateFromString("2024-06-16")}

	assert.True(t, pred(&same))
	assert.False(t, pred(&next))
}

func TestBuildPredicate_CombinedIsAnd(t *testing.T) {
	pred := query.BuildPredicate("acme", &query.DateRange{Start: day(2024, 6, 15)})

	match := domain.Invoice{CounterpartyName: "Acme", IssueDate: domain.DateFromString("2024-06-15")}
	wrongDay := domain.Invoice{CounterpartyName: "Acme", IssueDate: domain.DateFromString("2024-06-16")}
	wrongName := domain.Invoice{CounterpartyName: "Birch", IssueDate: domain.DateFromString("2024-06-15")}
	// invalid date still passes a text-only predicate
	textOnly := query.BuildPredicate("acme", nil)
	invalid := domain.Invoice{CounterpartyName: "Acme", IssueDate: domain.DateFromString("???")}

	assert.True(t, pred(&match))
	assert.False(t, pred(&wrongDay))
	assert.False(t, pred(&wrongName))
	assert.True(t, textOnly(&invalid))
}

func TestFilter_ReturnsNewSlice(t *testing.T) {
	invs := []domain.Invoice{
		{CounterpartyName: "Acme"},
		{CounterpartyName: "Birch"},
	}
	out := query.Filter(invs, query.BuildPredicate("acme", nil))
	require.Len(t, out, 1)
	assert.Equal(t, "Acme", out[0].CounterpartyName)
	assert.Len(t, invs, 2)
}
