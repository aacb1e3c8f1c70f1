package memory

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"sort"
	"sync"
)

type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[string]entities.Invoice
}

var _ interfaces.IInvoiceRepository = (*InvoiceRepository)(nil)

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{invoices: make(map[string]entities.Invoice)}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return entities.Invoice{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; ok {
		return entities.Invoice{}, interfaces.ErrInvoiceExists
	}
	r.invoices[inv.ID] = inv
	return inv, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return entities.Invoice{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.invoices[id], nil
}

func (r *InvoiceRepository) ListByQuoteID(ctx context.Context, quoteID string) ([]entities.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.QuoteID == quoteID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
