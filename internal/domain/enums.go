package domain

// InvoiceStatus is the payment state of an invoice. The literal label is
// what gets rendered and exported, so values are kept display-ready.
type InvoiceStatus string

const (
	StatusPaid    InvoiceStatus = "Paid"
	StatusPending InvoiceStatus = "Pending"
	StatusOverdue InvoiceStatus = "Overdue"
)

// ValidStatuses maps every accepted invoice status.
var ValidStatuses = map[InvoiceStatus]bool{
	StatusPaid:    true,
	StatusPending: true,
	StatusOverdue: true,
}
