package payments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"client_portal/internal/domain/entities"
)

func TestNewMercadoPagoGateway_MissingToken(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")

	_, err := NewMercadoPagoGateway(GatewayConfig{})
	if !errors.Is(err, ErrMissingMercadoPagoAccessToken) {
		t.Fatalf("expected ErrMissingMercadoPagoAccessToken, got %v", err)
	}
}

func TestMercadoPagoGateway_MockCheckout(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on ", "mock"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("PAYMENT_GATEWAY_MOCK", v)
			g, err := NewMercadoPagoGateway(GatewayConfig{})
			if err != nil {
				t.Fatalf("new gateway: %v", err)
			}
			s, err := g.CreateCheckoutSession(context.Background(), entities.CheckoutRequest{
				Title: "Deposit Q-000001", Amount: 100, Currency: "BRL", ExternalReference: "q1",
			})
			if err != nil {
				t.Fatalf("checkout: %v", err)
			}
			if s.ID == "" || !strings.HasSuffix(s.URL, s.ID) {
				t.Fatalf("unexpected session %+v", s)
			}
		})
	}
}

func TestMercadoPagoGateway_RejectsNonPositiveAmount(t *testing.T) {
	g, _ := NewMercadoPagoGateway(GatewayConfig{Mock: true})
	if _, err := g.CreateCheckoutSession(context.Background(), entities.CheckoutRequest{Amount: 0}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestMercadoPagoGateway_NotConfigured(t *testing.T) {
	var g *MercadoPagoGateway
	_, err := g.CreateCheckoutSession(context.Background(), entities.CheckoutRequest{Amount: 10})
	if !errors.Is(err, ErrMercadoPagoGatewayNotConfigured) {
		t.Fatalf("expected ErrMercadoPagoGatewayNotConfigured, got %v", err)
	}
}

func TestPreferenceRequest(t *testing.T) {
	g := &MercadoPagoGateway{cfg: GatewayConfig{SuccessURL: "https://portal/paid", NotificationURL: "https://api/hooks/mp"}}
	pr := g.preferenceRequest(entities.CheckoutRequest{
		Title:             "Deposit Q-000007",
		Amount:            250.5,
		Currency:          "BRL",
		PayerEmail:        "ana@example.com",
		ExternalReference: "q7",
		Metadata:          map[string]any{"quote_id": "q7"},
	})
	if len(pr.Items) != 1 || pr.Items[0].UnitPrice != 250.5 || pr.Items[0].Quantity != 1 || pr.Items[0].CurrencyID != "BRL" {
		t.Fatalf("unexpected items %+v", pr.Items)
	}
	if pr.ExternalReference != "q7" || pr.Metadata["quote_id"] != "q7" {
		t.Fatalf("reference not propagated: %+v", pr)
	}
	if pr.Payer == nil || pr.Payer.Email != "ana@example.com" {
		t.Fatalf("payer not set: %+v", pr.Payer)
	}
	if pr.BackURLs == nil || pr.BackURLs.Success != "https://portal/paid" {
		t.Fatalf("back urls not set: %+v", pr.BackURLs)
	}
}
