package entities

import (
	"errors"
	"fmt"
	"time"
)

// QuoteStatus represents the lifecycle of a quote.
//
// Domain notes:
//   - A quote is born pending (generation is the only way in).
//   - signed and cancelled are terminal: nothing leaves them.
//   - Transition is the only place legality is decided; repositories apply
//     the result with a write conditioned on the expected current status.

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusSigned    QuoteStatus = "signed"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

// QuoteEvent is an action requested against an existing quote.
type QuoteEvent string

const (
	QuoteEventSign   QuoteEvent = "sign"
	QuoteEventCancel QuoteEvent = "cancel"
)

var ErrInvalidTransition = errors.New("invalid quote transition")

// IsTerminal reports whether no further transition is legal from s.
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusSigned || s == QuoteStatusCancelled
}

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusSigned, QuoteStatusCancelled:
		return true
	}
	return false
}

// Transition returns the status reached by applying ev to s.
func (s QuoteStatus) Transition(ev QuoteEvent) (QuoteStatus, error) {
	if s != QuoteStatusPending {
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s)
	}
	switch ev {
	case QuoteEventSign:
		return QuoteStatusSigned, nil
	case QuoteEventCancel:
		return QuoteStatusCancelled, nil
	default:
		return s, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev)
	}
}

// Quote is the sellable-offer document record.
//
// Storage model (DynamoDB):
//   - PK: id
//   - guard item "project#<project_id>" keeps one quote per project
//
// SignedDocumentURL and SignedAt are written together by the sign transition
// and are either both empty or both set.
type Quote struct {
	ID                string      `json:"id"`
	ProjectID         string      `json:"project_id"`
	Number            int64       `json:"number"`
	Status            QuoteStatus `json:"status"`
	Amount            float64     `json:"amount"`
	DocumentURL       string      `json:"document_url"`
	SignaturePage     int         `json:"signature_page"`
	SignedDocumentURL string      `json:"signed_document_url,omitempty"`
	SignedAt          *time.Time  `json:"signed_at,omitempty"`
	CancelledAt       *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// DisplayNumber is the zero-padded number printed on documents and emails.
func (q Quote) DisplayNumber() string {
	return FormatQuoteNumber(q.Number)
}

// CurrentDocumentURL points at the signed artifact once there is one.
func (q Quote) CurrentDocumentURL() string {
	if q.SignedDocumentURL != "" {
		return q.SignedDocumentURL
	}
	return q.DocumentURL
}

// FormatQuoteNumber pads n to six digits. The stored value stays an integer.
func FormatQuoteNumber(n int64) string {
	return fmt.Sprintf("%06d", n)
}

// QuoteTitle is the document title, e.g. "Q-000042".
func QuoteTitle(n int64) string {
	return "Q-" + FormatQuoteNumber(n)
}
