// Package format renders invoice field values as display strings. The
// same dispatch table serves the on-screen table and the CSV export, so
// what the user sees filtered is what gets exported.
package format

import (
	"strconv"

	"excelsaver/internal/columns"
	"excelsaver/internal/domain"
)

// NotAvailable is rendered for absent optional values of non-monetary
// columns. Missing monetary values render as a formatted zero instead.
const NotAvailable = "N/A"

// InvalidDate is rendered when an invoice date cannot be resolved.
const InvalidDate = "Invalid Date"

// Cell renders the value of one invoice field for the given column.
func Cell(inv *domain.Invoice, col columns.Descriptor) string {
	switch col.Type {
	case columns.KindDate:
		inst := inv.IssueDate.Resolve()
		if !inst.Valid {
			return InvalidDate
		}
		return inst.Format("2006-01-02")
	case columns.KindCurrency:
		return money(currencyValue(inv, col.Key))
	case columns.KindPercent:
		if inv.VATRate == nil {
			return NotAvailable
		}
		return strconv.FormatFloat(*inv.VATRate, 'f', -1, 64) + "%"
	case columns.KindStatus:
		if inv.Status == "" {
			return NotAvailable
		}
		return string(inv.Status)
	case columns.KindActions:
		return ""
	default:
		return text(textValue(inv, col.Key))
	}
}

// Numeric reports whether cells of this kind carry a decimal number,
// which is what the exporter's locale decimal-separator substitution
// applies to.
func Numeric(k columns.Kind) bool {
	return k == columns.KindCurrency || k == columns.KindPercent
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func text(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func currencyValue(inv *domain.Invoice, key string) float64 {
	switch key {
	case "amount":
		return inv.Amount
	case "vatAmount":
		if inv.VATAmount == nil {
			return 0
		}
		return *inv.VATAmount
	}
	return 0
}

func textValue(inv *domain.Invoice, key string) string {
	switch key {
	case "invoiceNumber":
		return inv.InvoiceNumber
	case "counterpartyName":
		return inv.CounterpartyName
	case "taxId":
		return inv.TaxID
	case "address":
		return inv.Address
	case "concept":
		return inv.Concept
	}
	return ""
}
