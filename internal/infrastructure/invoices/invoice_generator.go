package invoices

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator numbers, renders and stores invoices for signed quotes.
type Generator struct {
	sequence interfaces.ISequenceAllocator
	renderer interfaces.IDocumentRenderer
	repo     interfaces.IInvoiceRepository
	currency string
	now      func() time.Time
}

var _ interfaces.IInvoiceGenerator = (*Generator)(nil)

func NewGenerator(sequence interfaces.ISequenceAllocator, renderer interfaces.IDocumentRenderer, repo interfaces.IInvoiceRepository, currency string) *Generator {
	if currency == "" {
		currency = "BRL"
	}
	return &Generator{sequence: sequence, renderer: renderer, repo: repo, currency: currency, now: time.Now}
}

// InvoiceID derives the invoice identity from the quote, so every attempt to
// bill the same quote lands on the same record.
func InvoiceID(quoteID string, typ entities.InvoiceType) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("invoice:"+quoteID+":"+string(typ))).String()
}

func (g *Generator) Generate(ctx context.Context, req entities.InvoiceRequest) (entities.Invoice, error) {
	if strings.TrimSpace(req.QuoteID) == "" {
		return entities.Invoice{}, fmt.Errorf("quote id is required")
	}
	if req.Amount <= 0 {
		return entities.Invoice{}, fmt.Errorf("invoice amount must be positive, got %.2f", req.Amount)
	}
	if req.Type == "" {
		req.Type = entities.InvoiceTypeDeposit
	}
	id := InvoiceID(req.QuoteID, req.Type)

	existing, err := g.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("lookup invoice: %w", err)
	}
	if existing.ID != "" {
		log.Printf("[invoice][generator] already exists quote_id=%s invoice_id=%s", req.QuoteID, id)
		return existing, nil
	}

	n, err := g.sequence.Next(ctx, interfaces.SequenceInvoice)
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("allocate invoice number: %w", err)
	}
	now := g.now().UTC()
	art, err := g.renderer.RenderInvoice(ctx, fmt.Sprintf("invoices/%s/%s.pdf", req.ProjectID, entities.InvoiceTitle(n)), entities.InvoiceDocument{
		Number:      n,
		QuoteNumber: req.QuoteNumber,
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		Amount:      req.Amount,
		Currency:    g.currency,
		Type:        req.Type,
		IssuedAt:    now,
	})
	if err != nil {
		return entities.Invoice{}, err
	}

	inv, err := g.repo.Create(ctx, entities.Invoice{
		ID:          id,
		Number:      n,
		QuoteID:     req.QuoteID,
		ProjectID:   req.ProjectID,
		ClientName:  req.ClientName,
		ProjectName: req.ProjectName,
		Amount:      req.Amount,
		Type:        req.Type,
		DocumentURL: art.URL,
		CreatedAt:   now,
	})
	if errors.Is(err, interfaces.ErrInvoiceExists) {
		// A concurrent attempt won; its number stands and ours becomes a gap.
		log.Printf("[invoice][generator] lost create race quote_id=%s invoice_id=%s unused_number=%d", req.QuoteID, id, n)
		return g.repo.GetByID(ctx, id)
	}
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("store invoice: %w", err)
	}
	log.Printf("[invoice][generator] created quote_id=%s invoice_id=%s number=%d", req.QuoteID, id, n)
	return inv, nil
}
