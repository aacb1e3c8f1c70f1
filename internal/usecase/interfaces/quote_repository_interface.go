package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
	"errors"
)

var (
	// ErrProjectQuoteExists is returned by Create when the project already
	// holds a quote. The write is rejected atomically by the store.
	ErrProjectQuoteExists = errors.New("project already has a quote")
	// ErrQuoteStatusMismatch is returned by ApplyTransition when the stored
	// status no longer equals the expected one.
	ErrQuoteStatusMismatch = errors.New("quote status changed concurrently")
)

// IQuoteRepository abstracts persistence for Quote.
//
// Lookups return a zero Quote (empty ID) and a nil error when nothing is found.
// Create must guarantee at most one quote per project, and ApplyTransition must
// be a single conditional write keyed on the expected current status.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	GetByProjectID(ctx context.Context, projectID string) (entities.Quote, error)
	ApplyTransition(ctx context.Context, id string, t entities.QuoteTransition) (entities.Quote, error)
}
