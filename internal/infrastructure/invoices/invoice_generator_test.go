package invoices

import (
	"context"
	"errors"
	"testing"
	"time"

	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"
	mock_interfaces "client_portal/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func request() entities.InvoiceRequest {
	return entities.InvoiceRequest{
		QuoteID:     "q1",
		QuoteNumber: 7,
		ProjectID:   "p1",
		ClientName:  "Ana",
		ProjectName: "Site",
		Amount:      500,
		Type:        entities.InvoiceTypeDeposit,
	}
}

func TestInvoiceID_Deterministic(t *testing.T) {
	a := InvoiceID("q1", entities.InvoiceTypeDeposit)
	if a != InvoiceID("q1", entities.InvoiceTypeDeposit) {
		t.Fatal("same quote must map to same invoice id")
	}
	if a == InvoiceID("q2", entities.InvoiceTypeDeposit) || a == InvoiceID("q1", entities.InvoiceTypeFinal) {
		t.Fatal("different quote or type must map to different ids")
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctrl := gomock.NewController(t)
	seq := mock_interfaces.NewMockISequenceAllocator(ctrl)
	renderer := mock_interfaces.NewMockIDocumentRenderer(ctrl)
	repo := mock_interfaces.NewMockIInvoiceRepository(ctrl)

	id := InvoiceID("q1", entities.InvoiceTypeDeposit)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().GetByID(gomock.Any(), id).Return(entities.Invoice{}, nil)
	seq.EXPECT().Next(gomock.Any(), interfaces.SequenceInvoice).Return(int64(3), nil)
	renderer.EXPECT().RenderInvoice(gomock.Any(), "invoices/p1/INV-000003.pdf", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc entities.InvoiceDocument) (entities.Artifact, error) {
			if doc.Number != 3 || doc.QuoteNumber != 7 || doc.Currency != "USD" || doc.Amount != 500 {
				t.Fatalf("unexpected document %+v", doc)
			}
			return entities.Artifact{URL: "mem://invoices/p1/INV-000003.pdf", PageCount: 1}, nil
		})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) { return inv, nil })

	g := NewGenerator(seq, renderer, repo, "USD")
	g.now = func() time.Time { return now }

	inv, err := g.Generate(context.Background(), request())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if inv.ID != id || inv.Number != 3 || inv.DocumentURL == "" || !inv.CreatedAt.Equal(now) {
		t.Fatalf("unexpected invoice %+v", inv)
	}
}

func TestGenerator_ReturnsExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
	existing := entities.Invoice{ID: InvoiceID("q1", entities.InvoiceTypeDeposit), Number: 1}
	repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)

	g := NewGenerator(mock_interfaces.NewMockISequenceAllocator(ctrl), mock_interfaces.NewMockIDocumentRenderer(ctrl), repo, "")
	inv, err := g.Generate(context.Background(), request())
	if err != nil || inv.Number != 1 {
		t.Fatalf("expected existing invoice, got %+v %v", inv, err)
	}
}

func TestGenerator_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	seq := mock_interfaces.NewMockISequenceAllocator(ctrl)
	renderer := mock_interfaces.NewMockIDocumentRenderer(ctrl)
	repo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
	id := InvoiceID("q1", entities.InvoiceTypeDeposit)
	winner := entities.Invoice{ID: id, Number: 4}

	gomock.InOrder(
		repo.EXPECT().GetByID(gomock.Any(), id).Return(entities.Invoice{}, nil),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, interfaces.ErrInvoiceExists),
		repo.EXPECT().GetByID(gomock.Any(), id).Return(winner, nil),
	)
	seq.EXPECT().Next(gomock.Any(), interfaces.SequenceInvoice).Return(int64(5), nil)
	renderer.EXPECT().RenderInvoice(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Artifact{URL: "mem://x"}, nil)

	inv, err := NewGenerator(seq, renderer, repo, "BRL").Generate(context.Background(), request())
	if err != nil || inv.Number != 4 {
		t.Fatalf("expected winner invoice, got %+v %v", inv, err)
	}
}

func TestGenerator_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		req   func() entities.InvoiceRequest
		setup func(seq *mock_interfaces.MockISequenceAllocator, r *mock_interfaces.MockIDocumentRenderer, repo *mock_interfaces.MockIInvoiceRepository)
	}{
		{
			name: "missing quote id",
			req:  func() entities.InvoiceRequest { r := request(); r.QuoteID = " "; return r },
			setup: func(*mock_interfaces.MockISequenceAllocator, *mock_interfaces.MockIDocumentRenderer, *mock_interfaces.MockIInvoiceRepository) {
			},
		},
		{
			name: "non positive amount",
			req:  func() entities.InvoiceRequest { r := request(); r.Amount = 0; return r },
			setup: func(*mock_interfaces.MockISequenceAllocator, *mock_interfaces.MockIDocumentRenderer, *mock_interfaces.MockIInvoiceRepository) {
			},
		},
		{
			name: "lookup fails",
			req:  request,
			setup: func(_ *mock_interfaces.MockISequenceAllocator, _ *mock_interfaces.MockIDocumentRenderer, repo *mock_interfaces.MockIInvoiceRepository) {
				repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, boom)
			},
		},
		{
			name: "sequence fails",
			req:  request,
			setup: func(seq *mock_interfaces.MockISequenceAllocator, _ *mock_interfaces.MockIDocumentRenderer, repo *mock_interfaces.MockIInvoiceRepository) {
				repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, nil)
				seq.EXPECT().Next(gomock.Any(), interfaces.SequenceInvoice).Return(int64(0), boom)
			},
		},
		{
			name: "render fails",
			req:  request,
			setup: func(seq *mock_interfaces.MockISequenceAllocator, r *mock_interfaces.MockIDocumentRenderer, repo *mock_interfaces.MockIInvoiceRepository) {
				repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, nil)
				seq.EXPECT().Next(gomock.Any(), interfaces.SequenceInvoice).Return(int64(1), nil)
				r.EXPECT().RenderInvoice(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Artifact{}, interfaces.ErrDocumentRender)
			},
		},
		{
			name: "store fails",
			req:  request,
			setup: func(seq *mock_interfaces.MockISequenceAllocator, r *mock_interfaces.MockIDocumentRenderer, repo *mock_interfaces.MockIInvoiceRepository) {
				repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, nil)
				seq.EXPECT().Next(gomock.Any(), interfaces.SequenceInvoice).Return(int64(1), nil)
				r.EXPECT().RenderInvoice(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Artifact{URL: "mem://x"}, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, boom)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			seq := mock_interfaces.NewMockISequenceAllocator(ctrl)
			r := mock_interfaces.NewMockIDocumentRenderer(ctrl)
			repo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
			tt.setup(seq, r, repo)

			if _, err := NewGenerator(seq, r, repo, "BRL").Generate(context.Background(), tt.req()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
