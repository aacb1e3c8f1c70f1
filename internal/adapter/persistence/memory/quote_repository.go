// Package memory holds in-process repositories. They apply the same
// conditional-write rules as the DynamoDB ones and back local runs and tests.
package memory

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"sync"
	"time"
)

type QuoteRepository struct {
	mu        sync.RWMutex
	quotes    map[string]entities.Quote
	byProject map[string]string
}

var _ interfaces.IQuoteRepository = (*QuoteRepository)(nil)

func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{
		quotes:    make(map[string]entities.Quote),
		byProject: make(map[string]string),
	}
}

func (r *QuoteRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entities.Quote{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byProject[q.ProjectID]; ok {
		return entities.Quote{}, interfaces.ErrProjectQuoteExists
	}
	if _, ok := r.quotes[q.ID]; ok {
		return entities.Quote{}, fmt.Errorf("quote %s already stored", q.ID)
	}
	r.quotes[q.ID] = cloneQuote(q)
	r.byProject[q.ProjectID] = q.ID
	return cloneQuote(q), nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entities.Quote{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneQuote(r.quotes[id]), nil
}

func (r *QuoteRepository) GetByProjectID(ctx context.Context, projectID string) (entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entities.Quote{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byProject[projectID]
	if !ok {
		return entities.Quote{}, nil
	}
	return cloneQuote(r.quotes[id]), nil
}

func (r *QuoteRepository) ApplyTransition(ctx context.Context, id string, t entities.QuoteTransition) (entities.Quote, error) {
	if err := ctx.Err(); err != nil {
		return entities.Quote{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	if q.Status != t.From {
		return entities.Quote{}, fmt.Errorf("%w: quote %s is %s, expected %s", interfaces.ErrQuoteStatusMismatch, id, q.Status, t.From)
	}

	at := t.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()
	switch t.To {
	case entities.QuoteStatusSigned:
		q.SignedDocumentURL = t.SignedDocumentURL
		q.SignedAt = &at
	case entities.QuoteStatusCancelled:
		q.CancelledAt = &at
	default:
		return entities.Quote{}, fmt.Errorf("unsupported target status %q", t.To)
	}
	q.Status = t.To
	q.UpdatedAt = at
	r.quotes[id] = q
	return cloneQuote(q), nil
}

func cloneQuote(q entities.Quote) entities.Quote {
	if q.SignedAt != nil {
		t := *q.SignedAt
		q.SignedAt = &t
	}
	if q.CancelledAt != nil {
		t := *q.CancelledAt
		q.CancelledAt = &t
	}
	return q
}
