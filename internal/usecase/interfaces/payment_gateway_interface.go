package interfaces

import (
	"client_portal/internal/domain/entities"
	"context"
)

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// The billing-service uses it to open a hosted checkout for the deposit once
// a quote is signed.
type IPaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error)
}
