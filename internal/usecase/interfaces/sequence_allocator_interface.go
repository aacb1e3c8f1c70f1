package interfaces

import "context"

const (
	SequenceQuote   = "quote"
	SequenceInvoice = "invoice"
)

// ISequenceAllocator hands out strictly increasing numbers per named sequence.
// Next must be one atomic operation on the backing store; a number handed out
// is never handed out again, even when the caller fails to use it.
type ISequenceAllocator interface {
	Next(ctx context.Context, name string) (int64, error)
}
