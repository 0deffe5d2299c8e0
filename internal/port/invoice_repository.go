package port

import (
	"context"

	"excelsaver/internal/domain"
)

// InvoiceRepository is the store collaborator. Implementations hand the
// engine fully-materialized in-memory collections; all filtering,
// sorting, and pagination happens client-side on top of ListByOwner.
// All methods are owner-scoped.
type InvoiceRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Invoice, error)
	Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error)
	Update(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error)
	Delete(ctx context.Context, ownerID, invoiceID string) error
}
