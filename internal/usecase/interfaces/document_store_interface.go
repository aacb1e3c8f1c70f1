package interfaces

import (
	"context"
	"errors"
)

var ErrDocumentNotFound = errors.New("document not found")

// IDocumentStore persists binary artifacts and fetches them back by URL.
//
// Put returns a fetchable URL for path. Get accepts any URL previously
// returned by Put.
type IDocumentStore interface {
	Put(ctx context.Context, path string, data []byte) (string, error)
	Get(ctx context.Context, url string) ([]byte, error)
}
