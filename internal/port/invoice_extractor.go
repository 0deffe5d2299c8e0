package port

import (
	"context"

	"excelsaver/internal/domain"
)

// ExtractInput carries the scanned document handed to the AI extractor.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
}

// InvoiceExtractor abstracts AI-based invoice data extraction. The
// returned record is a best-effort draft (no ID or owner yet); it is
// held to the same record contract as manual entry before persisting.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.Invoice, error)
}
