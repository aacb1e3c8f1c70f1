package usecase

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// TransitionKind names the lifecycle event that triggers a fan-out.
type TransitionKind string

const (
	TransitionCreated   TransitionKind = "created"
	TransitionResent    TransitionKind = "resent"
	TransitionSigned    TransitionKind = "signed"
	TransitionCancelled TransitionKind = "cancelled"
)

// Side effect names, as reported in warnings.
const (
	EffectQuoteReadyEmail     = "quote_ready_email"
	EffectInvoice             = "invoice"
	EffectCheckoutSession     = "checkout_session"
	EffectSignedEmail         = "signed_email"
	EffectSignedOperatorEmail = "signed_operator_email"
)

const defaultSideEffectTimeout = 15 * time.Second

// Transition is a committed state change handed to the orchestrator.
type Transition struct {
	Kind    TransitionKind
	Quote   entities.Quote
	Project entities.Project
	Actor   entities.Actor
}

// SideEffectWarning is a non-fatal side effect failure surfaced to the caller.
type SideEffectWarning struct {
	Code    string `json:"code"`
	Effect  string `json:"effect"`
	Message string `json:"message"`
}

// EffectResult tracks a single side effect of a fan-out.
type EffectResult struct {
	Effect string
	OK     bool
	Err    string
}

// FanOutReport is the outcome of every side effect triggered by one transition.
type FanOutReport struct {
	Effects     []EffectResult
	CheckoutURL *string
	Invoice     *entities.Invoice
}

func (r FanOutReport) Warnings() []SideEffectWarning {
	var out []SideEffectWarning
	for _, e := range r.Effects {
		if e.OK {
			continue
		}
		out = append(out, SideEffectWarning{Code: CodeSideEffectFailure, Effect: e.Effect, Message: e.Err})
	}
	return out
}

func (r *FanOutReport) record(effect string, err error) {
	res := EffectResult{Effect: effect, OK: err == nil}
	if err != nil {
		res.Err = err.Error()
	}
	r.Effects = append(r.Effects, res)
}

// IFanOutUseCase runs the post-commit side effects of a quote transition.
//
// Side effects are best-effort: their failures are logged and reported, never
// returned as errors, and never undo the transition that triggered them.

type IFanOutUseCase interface {
	Dispatch(ctx context.Context, t Transition) FanOutReport
}

type FanOutUseCase struct {
	notifier  interfaces.INotificationSender
	invoices  interfaces.IInvoiceGenerator
	gateway   interfaces.IPaymentGateway
	operators []string
	currency  string
	timeout   time.Duration
}

var _ IFanOutUseCase = (*FanOutUseCase)(nil)

type FanOutOption func(*FanOutUseCase)

// WithOperators sets the internal addresses notified when a quote is signed.
func WithOperators(emails ...string) FanOutOption {
	return func(u *FanOutUseCase) {
		for _, e := range emails {
			if e = strings.TrimSpace(e); e != "" {
				u.operators = append(u.operators, e)
			}
		}
	}
}

func WithSideEffectTimeout(d time.Duration) FanOutOption {
	return func(u *FanOutUseCase) {
		if d > 0 {
			u.timeout = d
		}
	}
}

func WithCurrency(currency string) FanOutOption {
	return func(u *FanOutUseCase) {
		if currency != "" {
			u.currency = currency
		}
	}
}

func NewFanOutUseCase(notifier interfaces.INotificationSender, invoices interfaces.IInvoiceGenerator, gateway interfaces.IPaymentGateway, opts ...FanOutOption) *FanOutUseCase {
	u := &FanOutUseCase{
		notifier: notifier,
		invoices: invoices,
		gateway:  gateway,
		currency: "BRL",
		timeout:  defaultSideEffectTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *FanOutUseCase) Dispatch(ctx context.Context, t Transition) FanOutReport {
	// Effects run after the transition committed; a caller that hangs up
	// must not take them down with it.
	ctx = context.WithoutCancel(ctx)

	log.Printf("[quote][fanout] dispatch start kind=%s quote_id=%s number=%s", t.Kind, t.Quote.ID, t.Quote.DisplayNumber())
	var report FanOutReport
	switch t.Kind {
	case TransitionCreated, TransitionResent:
		report.record(EffectQuoteReadyEmail, u.sendQuoteReady(ctx, t))
	case TransitionSigned:
		u.dispatchSigned(ctx, t, &report)
	default:
		log.Printf("[quote][fanout] no side effects kind=%s quote_id=%s", t.Kind, t.Quote.ID)
	}

	for _, w := range report.Warnings() {
		log.Printf("[quote][fanout] side effect failed kind=%s quote_id=%s effect=%s err=%s", t.Kind, t.Quote.ID, w.Effect, w.Message)
	}
	log.Printf("[quote][fanout] dispatch done kind=%s quote_id=%s effects=%d warnings=%d", t.Kind, t.Quote.ID, len(report.Effects), len(report.Warnings()))
	return report
}

func (u *FanOutUseCase) dispatchSigned(ctx context.Context, t Transition, report *FanOutReport) {
	inv, err := u.createInvoice(ctx, t)
	report.record(EffectInvoice, err)
	if err == nil {
		report.Invoice = &inv
	}

	session, err := u.createCheckout(ctx, t, report.Invoice)
	report.record(EffectCheckoutSession, err)
	if err == nil && session.URL != "" {
		url := session.URL
		report.CheckoutURL = &url
	}

	signerErr, operatorErr := u.sendSigned(ctx, t, report)
	report.record(EffectSignedEmail, signerErr)
	if len(u.operators) > 0 {
		report.record(EffectSignedOperatorEmail, operatorErr)
	}
}

func (u *FanOutUseCase) sendQuoteReady(ctx context.Context, t Transition) error {
	if u.notifier == nil {
		return fmt.Errorf("notification sender not configured")
	}
	recipient := strings.TrimSpace(t.Project.Client.Email)
	if recipient == "" {
		return fmt.Errorf("client email missing for project %s", t.Project.ID)
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	payload := map[string]any{
		"quote_id":      t.Quote.ID,
		"quote_number":  t.Quote.DisplayNumber(),
		"document_url":  t.Quote.DocumentURL,
		"project_name":  t.Project.Name,
		"client_name":   t.Project.Client.Name,
		"amount":        t.Quote.Amount,
		"resend":        t.Kind == TransitionResent,
		"quote_created": t.Quote.CreatedAt,
	}
	return sendResultErr(u.notifier.Send(ctx, entities.NotificationQuoteReady, recipient, payload))
}

func (u *FanOutUseCase) createInvoice(ctx context.Context, t Transition) (entities.Invoice, error) {
	if u.invoices == nil {
		return entities.Invoice{}, fmt.Errorf("invoice generator not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	inv, err := u.invoices.Generate(ctx, entities.InvoiceRequest{
		QuoteID:     t.Quote.ID,
		QuoteNumber: t.Quote.Number,
		ProjectID:   t.Project.ID,
		ClientName:  t.Project.Client.Name,
		ProjectName: t.Project.Name,
		Amount:      t.Quote.Amount,
		Type:        entities.InvoiceTypeDeposit,
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	log.Printf("[quote][fanout] invoice ready quote_id=%s invoice_id=%s number=%d", t.Quote.ID, inv.ID, inv.Number)
	return inv, nil
}

func (u *FanOutUseCase) createCheckout(ctx context.Context, t Transition, inv *entities.Invoice) (entities.CheckoutSession, error) {
	if u.gateway == nil {
		return entities.CheckoutSession{}, fmt.Errorf("payment gateway not configured")
	}
	if t.Quote.Amount <= 0 {
		return entities.CheckoutSession{}, fmt.Errorf("deposit amount must be positive, got %.2f", t.Quote.Amount)
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	metadata := map[string]any{
		"project_id":   t.Project.ID,
		"quote_id":     t.Quote.ID,
		"quote_number": t.Quote.DisplayNumber(),
	}
	if inv != nil {
		metadata["invoice_id"] = inv.ID
		metadata["invoice_number"] = inv.Number
	}
	session, err := u.gateway.CreateCheckoutSession(ctx, entities.CheckoutRequest{
		Title:             fmt.Sprintf("Deposit %s - %s", entities.QuoteTitle(t.Quote.Number), t.Project.Name),
		Amount:            t.Quote.Amount,
		Currency:          u.currency,
		PayerEmail:        t.Project.Client.Email,
		ExternalReference: t.Quote.ID,
		Metadata:          metadata,
	})
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	log.Printf("[quote][fanout] checkout session created quote_id=%s session_id=%s", t.Quote.ID, session.ID)
	return session, nil
}

// sendSigned notifies the signer and all operators concurrently.
func (u *FanOutUseCase) sendSigned(ctx context.Context, t Transition, report *FanOutReport) (signerErr, operatorErr error) {
	if u.notifier == nil {
		err := fmt.Errorf("notification sender not configured")
		return err, err
	}
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	payload := map[string]any{
		"quote_id":            t.Quote.ID,
		"quote_number":        t.Quote.DisplayNumber(),
		"signed_document_url": t.Quote.SignedDocumentURL,
		"project_name":        t.Project.Name,
		"client_name":         t.Project.Client.Name,
		"amount":              t.Quote.Amount,
		"signed_by":           t.Actor.ID,
	}
	if t.Quote.SignedAt != nil {
		payload["signed_at"] = t.Quote.SignedAt.UTC().Format(time.RFC3339)
	}
	if report.CheckoutURL != nil {
		payload["checkout_url"] = *report.CheckoutURL
	}
	if report.Invoice != nil {
		payload["invoice_url"] = report.Invoice.DocumentURL
		payload["invoice_number"] = entities.InvoiceTitle(report.Invoice.Number)
	}

	var (
		mu        sync.Mutex
		operrs    []string
		signerRes error
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	eg.Go(func() error {
		recipient := strings.TrimSpace(t.Project.Client.Email)
		if recipient == "" {
			signerRes = fmt.Errorf("client email missing for project %s", t.Project.ID)
			return nil
		}
		signerRes = sendResultErr(u.notifier.Send(gctx, entities.NotificationQuoteSigned, recipient, payload))
		return nil
	})
	for _, op := range u.operators {
		eg.Go(func() error {
			if err := sendResultErr(u.notifier.Send(gctx, entities.NotificationQuoteSignedOperator, op, payload)); err != nil {
				mu.Lock()
				operrs = append(operrs, fmt.Sprintf("%s: %v", op, err))
				mu.Unlock()
			}
			return nil
		})
	}
	// Goroutines never return errors; each outcome is collected above.
	_ = eg.Wait()

	if len(operrs) > 0 {
		operatorErr = fmt.Errorf("%d of %d operator notifications failed: %s", len(operrs), len(u.operators), strings.Join(operrs, "; "))
	}
	return signerRes, operatorErr
}

func sendResultErr(res entities.SendResult) error {
	if res.Success {
		return nil
	}
	if res.Error == "" {
		return fmt.Errorf("notification not delivered")
	}
	return fmt.Errorf("%s", res.Error)
}
