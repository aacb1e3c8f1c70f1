package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
	"errors"
)

var ErrInvoiceExists = errors.New("invoice already exists")

// IInvoiceGenerator creates the downstream invoice for a signed quote.
// Calling it twice for the same quote and type returns the first invoice.
type IInvoiceGenerator interface {
	Generate(ctx context.Context, req entities.InvoiceRequest) (entities.Invoice, error)
}

// IInvoiceRepository abstracts persistence for Invoice.
//
// Create fails with ErrInvoiceExists when an invoice with the same ID is
// already stored.

type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	ListByQuoteID(ctx context.Context, quoteID string) ([]entities.Invoice, error)
}
