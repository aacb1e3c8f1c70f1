package entities

import "time"

// QuoteDocument is everything printed on a quote PDF.
type QuoteDocument struct {
	Number      int64
	ClientName  string
	Email       string
	Phone       string
	Company     string
	ProjectName string
	Description string
	Amount      float64
	Currency    string
	IssuedAt    time.Time
}

// InvoiceDocument is everything printed on an invoice PDF.
type InvoiceDocument struct {
	Number      int64
	QuoteNumber int64
	ClientName  string
	ProjectName string
	Amount      float64
	Currency    string
	Type        InvoiceType
	IssuedAt    time.Time
}

// Artifact is a rendered PDF plus the location it was persisted at.
//
// SignaturePage is the 1-based page holding the signature box. It is an
// explicit anchor so signing never has to guess which page to stamp.
type Artifact struct {
	Bytes         []byte
	URL           string
	PageCount     int
	SignaturePage int
}
