package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"excelsaver/internal/domain"
)

// extractionPayload is the JSON shape the model is prompted to return.
type extractionPayload struct {
	InvoiceNumber    string   `json:"invoiceNumber"`
	CounterpartyName string   `json:"counterpartyName"`
	Amount           float64  `json:"amount"`
	Date             string   `json:"date"`
	TaxID            string   `json:"taxId"`
	Address          string   `json:"address"`
	Concept          string   `json:"concept"`
	VATRate          *float64 `json:"vatRate"`
	VATAmount        *float64 `json:"vatAmount"`
}

// parseInvoiceJSON parses the model response into an invoice draft. Models
// sometimes wrap the JSON in markdown fences or prose despite instructions,
// so everything outside the outermost braces is discarded.
func parseInvoiceJSON(text string) (*domain.Invoice, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var payload extractionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return &domain.Invoice{
		InvoiceNumber:    strings.TrimSpace(payload.InvoiceNumber),
		CounterpartyName: strings.TrimSpace(payload.CounterpartyName),
		Amount:           payload.Amount,
		IssueDate:        domain.DateFromString(strings.TrimSpace(payload.Date)),
		TaxID:            strings.TrimSpace(payload.TaxID),
		Address:          strings.TrimSpace(payload.Address),
		Concept:          strings.TrimSpace(payload.Concept),
		VATRate:          payload.VATRate,
		VATAmount:        payload.VATAmount,
	}, nil
}
