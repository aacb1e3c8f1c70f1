package entities

import "time"

// CheckoutRequest asks the payment provider for a hosted checkout session.
type CheckoutRequest struct {
	Title             string
	Amount            float64
	Currency          string
	PayerEmail        string
	ExternalReference string
	Metadata          map[string]any
}

// CheckoutSession is the provider's answer; URL is where the client pays.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// InvoiceRequest is the input of the invoice generator.
type InvoiceRequest struct {
	QuoteID     string
	QuoteNumber int64
	ProjectID   string
	ClientName  string
	ProjectName string
	Amount      float64
	Type        InvoiceType
}

// QuoteTransition is a status change to apply with a conditional write:
// the write only lands if the stored status still equals From.
type QuoteTransition struct {
	From              QuoteStatus
	To                QuoteStatus
	SignedDocumentURL string
	At                time.Time
}
