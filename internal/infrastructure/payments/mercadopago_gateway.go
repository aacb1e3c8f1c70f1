package payments

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

const mockCheckoutBase = "https://sandbox.mercadopago.local/checkout/"

// GatewayConfig configures the hosted checkout.
type GatewayConfig struct {
	AccessToken     string
	Mock            bool
	Sandbox         bool
	SuccessURL      string
	FailureURL      string
	NotificationURL string
}

// MercadoPagoGateway opens Mercado Pago checkout preferences for deposits.
type MercadoPagoGateway struct {
	client   preference.Client
	cfg      GatewayConfig
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg GatewayConfig) (*MercadoPagoGateway, error) {
	if cfg.Mock || isPaymentGatewayMockEnabled() {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{cfg: cfg, mockMode: true}, nil
	}

	if cfg.AccessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized sandbox=%t", cfg.Sandbox)

	return &MercadoPagoGateway{client: preference.NewClient(sdkCfg), cfg: cfg}, nil
}

func (g *MercadoPagoGateway) CreateCheckoutSession(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error) {
	if req.Amount <= 0 {
		return entities.CheckoutSession{}, fmt.Errorf("checkout amount must be positive, got %.2f", req.Amount)
	}

	if g != nil && g.mockMode {
		id := uuid.NewString()
		log.Printf("[payment][gateway] mock checkout created session_id=%s external_reference=%s amount=%.2f", id, req.ExternalReference, req.Amount)
		return entities.CheckoutSession{ID: id, URL: mockCheckoutBase + id}, nil
	}

	if g == nil || g.client == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return entities.CheckoutSession{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] checkout start external_reference=%s amount=%.2f currency=%s", req.ExternalReference, req.Amount, req.Currency)

	resp, err := g.client.Create(ctx, g.preferenceRequest(req))
	if err != nil {
		log.Printf("[payment][gateway] sdk create preference failed err=%v", err)
		return entities.CheckoutSession{}, err
	}

	url := resp.InitPoint
	if g.cfg.Sandbox && resp.SandboxInitPoint != "" {
		url = resp.SandboxInitPoint
	}
	if url == "" {
		return entities.CheckoutSession{}, fmt.Errorf("preference %s has no checkout url", resp.ID)
	}
	log.Printf("[payment][gateway] checkout success preference_id=%s", resp.ID)
	return entities.CheckoutSession{ID: resp.ID, URL: url}, nil
}

func (g *MercadoPagoGateway) preferenceRequest(req entities.CheckoutRequest) preference.Request {
	pr := preference.Request{
		Items: []preference.ItemRequest{{
			ID:         req.ExternalReference,
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: req.Currency,
		}},
		ExternalReference: req.ExternalReference,
		Metadata:          req.Metadata,
		NotificationURL:   g.cfg.NotificationURL,
	}
	if req.PayerEmail != "" {
		pr.Payer = &preference.PayerRequest{Email: req.PayerEmail}
	}
	if g.cfg.SuccessURL != "" || g.cfg.FailureURL != "" {
		pr.BackURLs = &preference.BackURLsRequest{Success: g.cfg.SuccessURL, Failure: g.cfg.FailureURL}
	}
	return pr
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
