package response

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase"
	"time"
)

type QuoteResponse struct {
	QuoteID           string     `json:"quote_id"`
	ProjectID         string     `json:"project_id"`
	Number            int64      `json:"number"`
	DisplayNumber     string     `json:"display_number"`
	Status            string     `json:"status"`
	Amount            float64    `json:"amount"`
	DocumentURL       string     `json:"document_url"`
	SignedDocumentURL string     `json:"signed_document_url,omitempty"`
	SignedAt          *time.Time `json:"signed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	return QuoteResponse{
		QuoteID:           q.ID,
		ProjectID:         q.ProjectID,
		Number:            q.Number,
		DisplayNumber:     q.DisplayNumber(),
		Status:            string(q.Status),
		Amount:            q.Amount,
		DocumentURL:       q.DocumentURL,
		SignedDocumentURL: q.SignedDocumentURL,
		SignedAt:          q.SignedAt,
		CancelledAt:       q.CancelledAt,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         q.UpdatedAt,
	}
}

type InvoiceResponse struct {
	InvoiceID     string  `json:"invoice_id"`
	Number        int64   `json:"number"`
	DisplayNumber string  `json:"display_number"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	DocumentURL   string  `json:"document_url"`
}

// QuoteResultResponse is the body of generate, sign and replay. Warnings list
// side effects that failed after the state change was committed.
type QuoteResultResponse struct {
	Quote       QuoteResponse               `json:"quote"`
	Event       string                      `json:"event"`
	CheckoutURL *string                     `json:"checkout_url,omitempty"`
	Invoice     *InvoiceResponse            `json:"invoice,omitempty"`
	Warnings    []usecase.SideEffectWarning `json:"warnings"`
}

func FromQuoteResult(r usecase.QuoteResult) QuoteResultResponse {
	out := QuoteResultResponse{
		Quote:       FromQuote(r.Quote),
		Event:       string(r.Event),
		CheckoutURL: r.CheckoutURL,
		Warnings:    r.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []usecase.SideEffectWarning{}
	}
	if r.Invoice != nil {
		inv := FromInvoice(*r.Invoice)
		out.Invoice = &inv
	}
	return out
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.ID,
		Number:        inv.Number,
		DisplayNumber: entities.InvoiceTitle(inv.Number),
		Type:          string(inv.Type),
		Amount:        inv.Amount,
		DocumentURL:   inv.DocumentURL,
	}
}

func FromInvoices(list []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInvoice(inv))
	}
	return out
}
