package usecase

import (
	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Error codes exposed to callers.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInvalidState      = "INVALID_STATE"
	CodeRenderFailure     = "RENDER_FAILURE"
	CodeStorageFailure    = "STORAGE_FAILURE"
	CodeSideEffectFailure = "SIDE_EFFECT_FAILURE"
)

var (
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrForbidden         = errors.New("actor may not manage this quote")
	ErrQuoteConflict     = errors.New("project already has a closed quote")
	ErrInvalidState      = errors.New("quote is not pending")
	ErrRenderFailure     = errors.New("render failure")
	ErrStorageFailure    = errors.New("storage failure")
	ErrInvalidQuoteID    = errors.New("invalid quote id")
	ErrInvalidProjectID  = errors.New("invalid project id")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInvalidQuoteInput = errors.New("invalid quote input")
)

// QuoteConflictError names the quote that blocks a new generation.
type QuoteConflictError struct {
	QuoteID string
	Status  entities.QuoteStatus
}

func (e *QuoteConflictError) Error() string {
	return fmt.Sprintf("%v: quote %s is %s", ErrQuoteConflict, e.QuoteID, e.Status)
}

func (e *QuoteConflictError) Unwrap() error { return ErrQuoteConflict }

// QuoteResult is what a lifecycle operation returns: the quote as stored
// after the operation plus the outcome of its side effects.
type QuoteResult struct {
	Quote       entities.Quote
	Event       TransitionKind
	CheckoutURL *string
	Invoice     *entities.Invoice
	Warnings    []SideEffectWarning
}

// IQuoteUseCase owns the quote lifecycle.
//
//   - Generate: create the project's quote, or resend it while pending.
//   - Sign: composite the signature and move pending -> signed.
//   - Cancel: move pending -> cancelled.
//
// Authorization, legality and conditional writes are all checked here; handlers
// only translate HTTP.

type IQuoteUseCase interface {
	Generate(ctx context.Context, actor entities.Actor, projectID string) (QuoteResult, error)
	Sign(ctx context.Context, actor entities.Actor, quoteID string, signature []byte) (QuoteResult, error)
	Cancel(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, error)
	GetByID(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, error)
	GetByProjectID(ctx context.Context, actor entities.Actor, projectID string) (entities.Quote, error)
	Document(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, []byte, error)
	ReplayFanOut(ctx context.Context, actor entities.Actor, quoteID string) (QuoteResult, error)
	Invoices(ctx context.Context, actor entities.Actor, quoteID string) ([]entities.Invoice, error)
}

type QuoteUseCase struct {
	repo       interfaces.IQuoteRepository
	projects   interfaces.IProjectRepository
	sequence   interfaces.ISequenceAllocator
	renderer   interfaces.IDocumentRenderer
	compositor interfaces.ISignatureCompositor
	store      interfaces.IDocumentStore
	invoices   interfaces.IInvoiceRepository
	fanout     IFanOutUseCase
	currency   string
	now        func() time.Time

	// generating holds the project ids with a generation in flight.
	generating sync.Map
}

const generateLockPoll = 25 * time.Millisecond

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

// QuoteDeps groups the collaborators of QuoteUseCase.
type QuoteDeps struct {
	Quotes     interfaces.IQuoteRepository
	Projects   interfaces.IProjectRepository
	Sequence   interfaces.ISequenceAllocator
	Renderer   interfaces.IDocumentRenderer
	Compositor interfaces.ISignatureCompositor
	Store      interfaces.IDocumentStore
	Invoices   interfaces.IInvoiceRepository
	FanOut     IFanOutUseCase
	Currency   string
	Now        func() time.Time
}

func NewQuoteUseCase(d QuoteDeps) *QuoteUseCase {
	now := d.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	currency := d.Currency
	if currency == "" {
		currency = "BRL"
	}
	return &QuoteUseCase{
		repo:       d.Quotes,
		projects:   d.Projects,
		sequence:   d.Sequence,
		renderer:   d.Renderer,
		compositor: d.Compositor,
		store:      d.Store,
		invoices:   d.Invoices,
		fanout:     d.FanOut,
		currency:   currency,
		now:        now,
	}
}

func (u *QuoteUseCase) Generate(ctx context.Context, actor entities.Actor, projectID string) (QuoteResult, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return QuoteResult{}, ErrInvalidProjectID
	}
	log.Printf("[quote][usecase] generate start project_id=%s actor_id=%s", projectID, actor.ID)

	project, err := u.authorizedProject(ctx, actor, projectID)
	if err != nil {
		return QuoteResult{}, err
	}

	unlock, err := u.lockProject(ctx, projectID)
	if err != nil {
		return QuoteResult{}, err
	}
	defer unlock()

	existing, err := u.repo.GetByProjectID(ctx, projectID)
	if err != nil {
		log.Printf("[quote][usecase] failed loading project quote project_id=%s err=%v", projectID, err)
		return QuoteResult{}, err
	}
	if existing.ID != "" {
		return u.resendOrConflict(ctx, actor, project, existing)
	}

	if project.Amount <= 0 {
		log.Printf("[quote][usecase] project has no quotable amount project_id=%s", projectID)
		return QuoteResult{}, ErrInvalidQuoteInput
	}

	number, err := u.sequence.Next(ctx, interfaces.SequenceQuote)
	if err != nil {
		log.Printf("[quote][usecase] sequence allocation failed project_id=%s err=%v", projectID, err)
		return QuoteResult{}, fmt.Errorf("%w: allocate quote number: %v", ErrStorageFailure, err)
	}

	now := u.now()
	artifact, err := u.renderer.RenderQuote(ctx, quoteDocumentPath(projectID, number), entities.QuoteDocument{
		Number:      number,
		ClientName:  project.Client.Name,
		Email:       project.Client.Email,
		Phone:       project.Client.Phone,
		Company:     project.Client.Company,
		ProjectName: project.Name,
		Description: project.Description,
		Amount:      project.Amount,
		Currency:    u.currency,
		IssuedAt:    now,
	})
	if err != nil {
		log.Printf("[quote][usecase] render failed project_id=%s number=%d err=%v", projectID, number, err)
		return QuoteResult{}, classifyDocumentErr(err)
	}
	log.Printf("[quote][usecase] document rendered project_id=%s number=%d url=%s pages=%d", projectID, number, artifact.URL, artifact.PageCount)

	q := entities.Quote{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Number:        number,
		Status:        entities.QuoteStatusPending,
		Amount:        project.Amount,
		DocumentURL:   artifact.URL,
		SignaturePage: artifact.SignaturePage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.repo.Create(ctx, q)
	if errors.Is(err, interfaces.ErrProjectQuoteExists) {
		// Lost a concurrent generation for the same project. The number we
		// allocated is burnt; the winner's quote is the one that counts.
		log.Printf("[quote][usecase] concurrent generation lost project_id=%s number=%d", projectID, number)
		winner, gerr := u.repo.GetByProjectID(ctx, projectID)
		if gerr != nil {
			return QuoteResult{}, gerr
		}
		if winner.ID == "" {
			return QuoteResult{}, fmt.Errorf("%w: project guard held without quote", ErrStorageFailure)
		}
		return u.resendOrConflict(ctx, actor, project, winner)
	}
	if err != nil {
		log.Printf("[quote][usecase] quote create failed project_id=%s number=%d err=%v", projectID, number, err)
		return QuoteResult{}, fmt.Errorf("%w: persist quote: %v", ErrStorageFailure, err)
	}
	log.Printf("[quote][usecase] generate success project_id=%s quote_id=%s number=%s", projectID, created.ID, created.DisplayNumber())

	report := u.dispatch(ctx, Transition{Kind: TransitionCreated, Quote: created, Project: project, Actor: actor})
	return newQuoteResult(created, TransitionCreated, report), nil
}

func (u *QuoteUseCase) resendOrConflict(ctx context.Context, actor entities.Actor, project entities.Project, existing entities.Quote) (QuoteResult, error) {
	if existing.Status != entities.QuoteStatusPending {
		log.Printf("[quote][usecase] generate conflict project_id=%s quote_id=%s status=%s", project.ID, existing.ID, existing.Status)
		return QuoteResult{}, &QuoteConflictError{QuoteID: existing.ID, Status: existing.Status}
	}
	log.Printf("[quote][usecase] generate resend project_id=%s quote_id=%s", project.ID, existing.ID)
	report := u.dispatch(ctx, Transition{Kind: TransitionResent, Quote: existing, Project: project, Actor: actor})
	return newQuoteResult(existing, TransitionResent, report), nil
}

func (u *QuoteUseCase) Sign(ctx context.Context, actor entities.Actor, quoteID string, signature []byte) (QuoteResult, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return QuoteResult{}, ErrInvalidQuoteID
	}
	if len(signature) == 0 {
		return QuoteResult{}, ErrInvalidSignature
	}
	log.Printf("[quote][usecase] sign start quote_id=%s actor_id=%s signature_len=%d", quoteID, actor.ID, len(signature))

	q, project, err := u.authorizedQuote(ctx, actor, quoteID)
	if err != nil {
		return QuoteResult{}, err
	}
	next, err := q.Status.Transition(entities.QuoteEventSign)
	if err != nil {
		log.Printf("[quote][usecase] sign rejected quote_id=%s status=%s", quoteID, q.Status)
		return QuoteResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	original, err := u.store.Get(ctx, q.DocumentURL)
	if err != nil {
		log.Printf("[quote][usecase] fetch unsigned document failed quote_id=%s url=%s err=%v", quoteID, q.DocumentURL, err)
		return QuoteResult{}, fmt.Errorf("%w: fetch unsigned document: %v", ErrStorageFailure, err)
	}

	signedAt := u.now()
	signed, err := u.compositor.Sign(ctx, original, signature, q.SignaturePage, signedAt)
	if err != nil {
		log.Printf("[quote][usecase] composite failed quote_id=%s err=%v", quoteID, err)
		if errors.Is(err, interfaces.ErrInvalidSignatureImage) {
			return QuoteResult{}, fmt.Errorf("%w: %w: %v", ErrRenderFailure, ErrInvalidSignature, err)
		}
		return QuoteResult{}, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	signedURL, err := u.store.Put(ctx, signedDocumentPath(q.ProjectID, q.Number), signed)
	if err != nil {
		log.Printf("[quote][usecase] persist signed document failed quote_id=%s err=%v", quoteID, err)
		return QuoteResult{}, fmt.Errorf("%w: persist signed document: %v", ErrStorageFailure, err)
	}

	updated, err := u.repo.ApplyTransition(ctx, q.ID, entities.QuoteTransition{
		From:              entities.QuoteStatusPending,
		To:                next,
		SignedDocumentURL: signedURL,
		At:                signedAt,
	})
	if err != nil {
		return QuoteResult{}, u.transitionErr(quoteID, err)
	}
	if updated.ID == "" {
		return QuoteResult{}, ErrQuoteNotFound
	}
	log.Printf("[quote][usecase] sign success quote_id=%s signed_url=%s", quoteID, signedURL)

	report := u.dispatch(ctx, Transition{Kind: TransitionSigned, Quote: updated, Project: project, Actor: actor})
	return newQuoteResult(updated, TransitionSigned, report), nil
}

func (u *QuoteUseCase) Cancel(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	log.Printf("[quote][usecase] cancel start quote_id=%s actor_id=%s", quoteID, actor.ID)

	q, project, err := u.authorizedQuote(ctx, actor, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	next, err := q.Status.Transition(entities.QuoteEventCancel)
	if err != nil {
		log.Printf("[quote][usecase] cancel rejected quote_id=%s status=%s", quoteID, q.Status)
		return entities.Quote{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	updated, err := u.repo.ApplyTransition(ctx, q.ID, entities.QuoteTransition{
		From: entities.QuoteStatusPending,
		To:   next,
		At:   u.now(),
	})
	if err != nil {
		return entities.Quote{}, u.transitionErr(quoteID, err)
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	log.Printf("[quote][usecase] cancel success quote_id=%s", quoteID)

	u.dispatch(ctx, Transition{Kind: TransitionCancelled, Quote: updated, Project: project, Actor: actor})
	return updated, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	q, _, err := u.authorizedQuote(ctx, actor, quoteID)
	return q, err
}

func (u *QuoteUseCase) GetByProjectID(ctx context.Context, actor entities.Actor, projectID string) (entities.Quote, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return entities.Quote{}, ErrInvalidProjectID
	}
	if _, err := u.authorizedProject(ctx, actor, projectID); err != nil {
		return entities.Quote{}, err
	}
	q, err := u.repo.GetByProjectID(ctx, projectID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

// Document returns the current artifact of the quote: the signed PDF once
// there is one, the unsigned one before that.
func (u *QuoteUseCase) Document(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, []byte, error) {
	q, err := u.GetByID(ctx, actor, quoteID)
	if err != nil {
		return entities.Quote{}, nil, err
	}
	data, err := u.store.Get(ctx, q.CurrentDocumentURL())
	if err != nil {
		log.Printf("[quote][usecase] document fetch failed quote_id=%s err=%v", q.ID, err)
		return entities.Quote{}, nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return q, data, nil
}

// ReplayFanOut re-runs the signed side effects of a signed quote, for when a
// crash or outage dropped them after the transition committed. Invoice
// generation is idempotent per quote, so a replay never bills twice.
func (u *QuoteUseCase) ReplayFanOut(ctx context.Context, actor entities.Actor, quoteID string) (QuoteResult, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return QuoteResult{}, ErrInvalidQuoteID
	}
	if !actor.IsStaff() {
		return QuoteResult{}, ErrForbidden
	}
	q, project, err := u.authorizedQuote(ctx, actor, quoteID)
	if err != nil {
		return QuoteResult{}, err
	}
	if q.Status != entities.QuoteStatusSigned {
		return QuoteResult{}, fmt.Errorf("%w: replay needs a signed quote, got %s", ErrInvalidState, q.Status)
	}
	log.Printf("[quote][usecase] fanout replay quote_id=%s actor_id=%s", quoteID, actor.ID)
	report := u.dispatch(ctx, Transition{Kind: TransitionSigned, Quote: q, Project: project, Actor: actor})
	return newQuoteResult(q, TransitionSigned, report), nil
}

// Invoices lists the invoices billed for a quote. A quote that was never
// signed has none.
func (u *QuoteUseCase) Invoices(ctx context.Context, actor entities.Actor, quoteID string) ([]entities.Invoice, error) {
	q, err := u.GetByID(ctx, actor, quoteID)
	if err != nil {
		return nil, err
	}
	if u.invoices == nil || q.Status != entities.QuoteStatusSigned {
		return []entities.Invoice{}, nil
	}
	list, err := u.invoices.ListByQuoteID(ctx, q.ID)
	if err != nil {
		log.Printf("[quote][usecase] invoice listing failed quote_id=%s err=%v", q.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

func (u *QuoteUseCase) authorizedProject(ctx context.Context, actor entities.Actor, projectID string) (entities.Project, error) {
	project, err := u.projects.GetByID(ctx, projectID)
	if err != nil {
		log.Printf("[quote][usecase] failed loading project project_id=%s err=%v", projectID, err)
		return entities.Project{}, err
	}
	if project.ID == "" {
		return entities.Project{}, ErrProjectNotFound
	}
	if !actor.CanManage(project) {
		log.Printf("[quote][usecase] forbidden project_id=%s actor_id=%s role=%s", projectID, actor.ID, actor.Role)
		return entities.Project{}, ErrForbidden
	}
	return project, nil
}

func (u *QuoteUseCase) authorizedQuote(ctx context.Context, actor entities.Actor, quoteID string) (entities.Quote, entities.Project, error) {
	q, err := u.repo.GetByID(ctx, quoteID)
	if err != nil {
		log.Printf("[quote][usecase] failed loading quote quote_id=%s err=%v", quoteID, err)
		return entities.Quote{}, entities.Project{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, entities.Project{}, ErrQuoteNotFound
	}
	project, err := u.authorizedProject(ctx, actor, q.ProjectID)
	if err != nil {
		return entities.Quote{}, entities.Project{}, err
	}
	return q, project, nil
}

// lockProject serializes generations for one project inside this process so
// concurrent calls resend instead of burning numbers. The conditional create
// still decides across processes.
func (u *QuoteUseCase) lockProject(ctx context.Context, projectID string) (func(), error) {
	release := func() { u.generating.Delete(projectID) }
	if _, loaded := u.generating.LoadOrStore(projectID, struct{}{}); !loaded {
		return release, nil
	}
	ticker := time.NewTicker(generateLockPoll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[quote][usecase] gave up waiting for generation lock project_id=%s err=%v", projectID, ctx.Err())
			return nil, fmt.Errorf("%w: waiting for generation in flight: %v", ErrStorageFailure, ctx.Err())
		case <-ticker.C:
			if _, loaded := u.generating.LoadOrStore(projectID, struct{}{}); !loaded {
				return release, nil
			}
		}
	}
}

func (u *QuoteUseCase) transitionErr(quoteID string, err error) error {
	if errors.Is(err, interfaces.ErrQuoteStatusMismatch) {
		log.Printf("[quote][usecase] concurrent transition lost quote_id=%s", quoteID)
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	log.Printf("[quote][usecase] transition write failed quote_id=%s err=%v", quoteID, err)
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func (u *QuoteUseCase) dispatch(ctx context.Context, t Transition) FanOutReport {
	if u.fanout == nil {
		return FanOutReport{}
	}
	return u.fanout.Dispatch(ctx, t)
}

func newQuoteResult(q entities.Quote, ev TransitionKind, report FanOutReport) QuoteResult {
	return QuoteResult{
		Quote:       q,
		Event:       ev,
		CheckoutURL: report.CheckoutURL,
		Invoice:     report.Invoice,
		Warnings:    report.Warnings(),
	}
}

func classifyDocumentErr(err error) error {
	switch {
	case errors.Is(err, interfaces.ErrDocumentStorage):
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	default:
		return fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
}

func quoteDocumentPath(projectID string, number int64) string {
	return fmt.Sprintf("quotes/%s/%s.pdf", projectID, entities.QuoteTitle(number))
}

// Each signing attempt gets its own object so a losing concurrent sign can
// never overwrite the artifact the winner recorded.
func signedDocumentPath(projectID string, number int64) string {
	return fmt.Sprintf("quotes/%s/%s-signed-%s.pdf", projectID, entities.QuoteTitle(number), uuid.NewString())
}
