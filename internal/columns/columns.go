// Package columns holds the column model driving both the invoice table
// and the CSV export: an ordered list of descriptors with visibility
// flags. All operations are pure and return fresh slices; callers keep
// their own copy per session.
package columns

import "excelsaver/internal/domain"

// Kind is the semantic type of a column, independent of how the value is
// stored. It selects the formatting behavior for table cells and export.
type Kind string

const (
	KindText     Kind = "text"
	KindDate     Kind = "date"
	KindCurrency Kind = "currency"
	KindPercent  Kind = "percent"
	KindStatus   Kind = "status"
	KindActions  Kind = "actions"
)

// Direction is a reorder direction for Move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Descriptor describes one column. Order is positional in the slice;
// reordering is a list operation, not a field.
type Descriptor struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"isVisible"`
	Type    Kind   `json:"type"`
}

// kinds maps every known column key to its semantic type. The synthetic
// actions column is display-only and never exported.
var kinds = map[string]Kind{
	"invoiceNumber":    KindText,
	"counterpartyName": KindText,
	"taxId":            KindText,
	"address":          KindText,
	"concept":          KindText,
	"date":             KindDate,
	"amount":           KindCurrency,
	"vatRate":          KindPercent,
	"vatAmount":        KindCurrency,
	"status":           KindStatus,
	"actions":          KindActions,
}

// KindFor returns the semantic type for a column key, or ErrUnknownColumn
// for keys outside the invoice schema.
func KindFor(key string) (Kind, error) {
	k, ok := kinds[key]
	if !ok {
		return "", domain.ErrUnknownColumn
	}
	return k, nil
}

// Default returns the initial column set. Variant-dependent fields start
// hidden; the base fields and the actions column start visible.
func Default() []Descriptor {
	return []Descriptor{
		{Key: "invoiceNumber", Label: "Invoice ID", Visible: true, Type: KindText},
		{Key: "counterpartyName", Label: "Business Name", Visible: true, Type: KindText},
		{Key: "taxId", Label: "Tax ID", Visible: false, Type: KindText},
		{Key: "address", Label: "Address", Visible: false, Type: KindText},
		{Key: "concept", Label: "Concept", Visible: false, Type: KindText},
		{Key: "date", Label: "Date", Visible: true, Type: KindDate},
		{Key: "amount", Label: "Amount", Visible: true, Type: KindCurrency},
		{Key: "vatRate", Label: "VAT Rate", Visible: false, Type: KindPercent},
		{Key: "vatAmount", Label: "VAT Amount", Visible: false, Type: KindCurrency},
		{Key: "status", Label: "Status", Visible: true, Type: KindStatus},
		{Key: "actions", Label: "Actions", Visible: true, Type: KindActions},
	}
}

// Visible filters to the visible descriptors, preserving order.
func Visible(cols []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(cols))
	for _, c := range cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Move swaps the descriptor at index with its neighbor in the given
// direction. Moving past either end of the list is a no-op, not an error.
func Move(cols []Descriptor, index int, dir Direction) []Descriptor {
	out := append([]Descriptor(nil), cols...)
	if index < 0 || index >= len(out) {
		return out
	}
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(out) {
		return out
	}
	out[index], out[target] = out[target], out[index]
	return out
}

// SetVisible updates the visibility of the column with the given key,
// leaving order and every other descriptor untouched.
func SetVisible(cols []Descriptor, key string, visible bool) []Descriptor {
	out := append([]Descriptor(nil), cols...)
	for i := range out {
		if out[i].Key == key {
			out[i].Visible = visible
		}
	}
	return out
}

// IndexOf returns the position of key in cols, or -1.
func IndexOf(cols []Descriptor, key string) int {
	for i, c := range cols {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Normalize validates a caller-supplied column list: every key must be a
// known column and the semantic type is corrected from the key so clients
// cannot change formatting behavior.
func Normalize(cols []Descriptor) ([]Descriptor, error) {
	out := append([]Descriptor(nil), cols...)
	for i := range out {
		kind, err := KindFor(out[i].Key)
		if err != nil {
			return nil, err
		}
		out[i].Type = kind
	}
	return out, nil
}
