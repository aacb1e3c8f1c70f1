package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
	"errors"
	"time"
)

var (
	// ErrDocumentRender classifies failures producing PDF bytes.
	ErrDocumentRender = errors.New("document render failed")
	// ErrDocumentStorage classifies failures persisting or fetching PDF bytes.
	ErrDocumentStorage = errors.New("document storage failed")
	// ErrInvalidSignatureImage is returned for signature bytes that are not a decodable PNG.
	ErrInvalidSignatureImage = errors.New("invalid signature image")
)

// IDocumentRenderer lays out the fixed templates and persists the result
// at path. Errors wrap ErrDocumentRender or ErrDocumentStorage.
type IDocumentRenderer interface {
	RenderQuote(ctx context.Context, path string, doc entities.QuoteDocument) (entities.Artifact, error)
	RenderInvoice(ctx context.Context, path string, doc entities.InvoiceDocument) (entities.Artifact, error)
}

// ISignatureCompositor stamps a signature image and a signed-date caption
// onto page of an existing PDF and returns new bytes. The input slice is
// never modified.
type ISignatureCompositor interface {
	Sign(ctx context.Context, pdf []byte, signature []byte, page int, signedAt time.Time) ([]byte, error)
}
