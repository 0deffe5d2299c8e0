package domain

// Invoice is the canonical invoice record. Records arrive from three
// producers (manual entry, AI extraction, store reads) and only the first
// six fields are guaranteed; the rest vary by product variant and may be
// absent.
type Invoice struct {
	ID               string        `json:"id"`
	OwnerID          string        `json:"ownerId"`
	InvoiceNumber    string        `json:"invoiceNumber"`
	CounterpartyName string        `json:"counterpartyName"`
	Amount           float64       `json:"amount"`
	IssueDate        RawDate       `json:"date"`
	TaxID            string        `json:"taxId,omitempty"`
	Address          string        `json:"address,omitempty"`
	Concept          string        `json:"concept,omitempty"`
	VATRate          *float64      `json:"vatRate,omitempty"`
	VATAmount        *float64      `json:"vatAmount,omitempty"`
	Status           InvoiceStatus `json:"status,omitempty"`
}

// Draft reports whether the invoice has not been persisted yet. Manual
// entry and AI extraction both produce drafts; the store assigns ID and
// owner on write.
func (i *Invoice) Draft() bool {
	return i.ID == ""
}
