package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"excelsaver/internal/domain"
	"excelsaver/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) List(ctx context.Context, in *service.ListInput) (*service.ListOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListOutput), args.Error(1)
}

func (m *MockInvoiceService) ExportCSV(ctx context.Context, in *service.ExportInput) ([]byte, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockInvoiceService) Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Replace(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, ownerID, invoiceID string) error {
	args := m.Called(ctx, ownerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) Scan(ctx context.Context, ownerID string, fileBytes []byte, contentType string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, fileBytes, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
