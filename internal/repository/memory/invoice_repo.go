// Package memory provides an in-memory InvoiceRepository for development
// and tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"excelsaver/internal/domain"
	"excelsaver/internal/port"
)

type invoiceRepo struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]domain.Invoice
}

// NewInvoiceRepo creates a new in-memory InvoiceRepository.
func NewInvoiceRepo() port.InvoiceRepository {
	return &invoiceRepo{byOwner: make(map[string]map[string]domain.Invoice)}
}

func (r *invoiceRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Invoice, 0, len(r.byOwner[ownerID]))
	for _, inv := range r.byOwner[ownerID] {
		out = append(out, inv)
	}
	return out, nil
}

func (r *invoiceRepo) Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *inv
	stored.ID = uuid.New().String()
	stored.OwnerID = ownerID

	if r.byOwner[ownerID] == nil {
		r.byOwner[ownerID] = make(map[string]domain.Invoice)
	}
	r.byOwner[ownerID][stored.ID] = stored
	return &stored, nil
}

func (r *invoiceRepo) Update(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[ownerID][inv.ID]; !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	stored := *inv
	stored.OwnerID = ownerID
	r.byOwner[ownerID][stored.ID] = stored
	return &stored, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, ownerID, invoiceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[ownerID][invoiceID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	delete(r.byOwner[ownerID], invoiceID)
	return nil
}
