package entities

import (
	"fmt"
	"time"
)

type InvoiceType string

const (
	InvoiceTypeDeposit InvoiceType = "deposit"
	InvoiceTypeFinal   InvoiceType = "final"
)

// Invoice is the downstream billing document created when a quote is signed.
//
// Numbering uses its own sequence, independent from quotes. At most one
// deposit invoice exists per quote (the quote id is the idempotency key).
type Invoice struct {
	ID          string      `json:"id"`
	Number      int64       `json:"number"`
	QuoteID     string      `json:"quote_id"`
	ProjectID   string      `json:"project_id"`
	ClientName  string      `json:"client_name"`
	ProjectName string      `json:"project_name"`
	Amount      float64     `json:"amount"`
	Type        InvoiceType `json:"type"`
	DocumentURL string      `json:"document_url"`
	CreatedAt   time.Time   `json:"created_at"`
}

func InvoiceTitle(n int64) string {
	return fmt.Sprintf("INV-%06d", n)
}
