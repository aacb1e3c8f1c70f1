package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue

	getItem    func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	putItem    func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	updateItem func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	query      func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	transact   func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getItem != nil {
		return f.getItem(in)
	}
	id := in.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[id]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return f.putItem(in)
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return f.updateItem(in)
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return f.query(in)
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return f.transact(in)
}

func mustMarshal(t *testing.T, v any) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return av
}

func sampleQuote() entities.Quote {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return entities.Quote{
		ID:            "q1",
		ProjectID:     "p1",
		Number:        42,
		Status:        entities.QuoteStatusPending,
		Amount:        1500,
		DocumentURL:   "mem://quotes/p1/Q-000042.pdf",
		SignaturePage: 1,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestQuoteRepository_CreateWritesGuardAndQuote(t *testing.T) {
	var got *dynamodb.TransactWriteItemsInput
	f := &fakeDynamo{transact: func(in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		got = in
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}}
	repo := NewQuoteDynamoRepository(f, "")

	if _, err := repo.Create(context.Background(), sampleQuote()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(got.TransactItems) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(got.TransactItems))
	}
	for _, ti := range got.TransactItems {
		if aws.ToString(ti.Put.TableName) != "quotes" {
			t.Fatalf("unexpected table %s", aws.ToString(ti.Put.TableName))
		}
		if aws.ToString(ti.Put.ConditionExpression) != "attribute_not_exists(#id)" {
			t.Fatalf("unexpected condition %s", aws.ToString(ti.Put.ConditionExpression))
		}
	}
	guardID := got.TransactItems[0].Put.Item["id"].(*types.AttributeValueMemberS).Value
	if guardID != "project#p1" {
		t.Fatalf("unexpected guard id %s", guardID)
	}
	if v := got.TransactItems[0].Put.Item["quote_id"].(*types.AttributeValueMemberS).Value; v != "q1" {
		t.Fatalf("guard points at %s", v)
	}
}

func TestQuoteRepository_CreateConflict(t *testing.T) {
	f := &fakeDynamo{transact: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, &types.TransactionCanceledException{
			Message: aws.String("cancelled"),
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
			},
		}
	}}
	_, err := NewQuoteDynamoRepository(f, "").Create(context.Background(), sampleQuote())
	if !errors.Is(err, interfaces.ErrProjectQuoteExists) {
		t.Fatalf("expected ErrProjectQuoteExists, got %v", err)
	}
}

func TestQuoteRepository_CreateOtherError(t *testing.T) {
	boom := errors.New("throttled")
	f := &fakeDynamo{transact: func(*dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, boom
	}}
	_, err := NewQuoteDynamoRepository(f, "").Create(context.Background(), sampleQuote())
	if !errors.Is(err, boom) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
}

func TestQuoteRepository_Lookups(t *testing.T) {
	q := sampleQuote()
	f := &fakeDynamo{items: map[string]map[string]types.AttributeValue{
		"q1":         mustMarshal(t, toQuoteItem(q)),
		"project#p1": mustMarshal(t, projectGuardItem{ID: "project#p1", QuoteID: "q1"}),
	}}
	repo := NewQuoteDynamoRepository(f, "")
	ctx := context.Background()

	got, err := repo.GetByProjectID(ctx, "p1")
	if err != nil {
		t.Fatalf("get by project: %v", err)
	}
	if got.ID != "q1" || got.Number != 42 || got.Status != entities.QuoteStatusPending || !got.CreatedAt.Equal(q.CreatedAt) {
		t.Fatalf("unexpected quote %+v", got)
	}
	if got.SignedAt != nil || got.CancelledAt != nil {
		t.Fatalf("pending quote has terminal timestamps: %+v", got)
	}

	if missing, err := repo.GetByProjectID(ctx, "p2"); err != nil || missing.ID != "" {
		t.Fatalf("expected zero quote, got %+v %v", missing, err)
	}
	if guard, err := repo.GetByID(ctx, "project#p1"); err != nil || guard.ID != "" {
		t.Fatalf("guard item must not read as a quote, got %+v %v", guard, err)
	}
}

func TestQuoteRepository_ApplyTransitionSign(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	var got *dynamodb.UpdateItemInput
	f := &fakeDynamo{updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		got = in
		q := sampleQuote()
		q.Status = entities.QuoteStatusSigned
		q.SignedDocumentURL = "mem://signed.pdf"
		q.SignedAt = &at
		return &dynamodb.UpdateItemOutput{Attributes: mustMarshal(t, toQuoteItem(q))}, nil
	}}

	q, err := NewQuoteDynamoRepository(f, "").ApplyTransition(context.Background(), "q1", entities.QuoteTransition{
		From: entities.QuoteStatusPending, To: entities.QuoteStatusSigned, SignedDocumentURL: "mem://signed.pdf", At: at,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if q.Status != entities.QuoteStatusSigned || q.SignedAt == nil || !q.SignedAt.Equal(at) {
		t.Fatalf("unexpected quote %+v", q)
	}
	if aws.ToString(got.ConditionExpression) != "attribute_exists(#id) AND #status = :from" {
		t.Fatalf("unexpected condition %s", aws.ToString(got.ConditionExpression))
	}
	if !strings.Contains(aws.ToString(got.UpdateExpression), "#signed_document_url = :signed_url") {
		t.Fatalf("signed url not written: %s", aws.ToString(got.UpdateExpression))
	}
	if v := got.ExpressionAttributeValues[":from"].(*types.AttributeValueMemberS).Value; v != "pending" {
		t.Fatalf("unexpected from %s", v)
	}
}

func TestQuoteRepository_ApplyTransitionCancelDoesNotTouchSignature(t *testing.T) {
	var got *dynamodb.UpdateItemInput
	f := &fakeDynamo{updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		got = in
		q := sampleQuote()
		q.Status = entities.QuoteStatusCancelled
		return &dynamodb.UpdateItemOutput{Attributes: mustMarshal(t, toQuoteItem(q))}, nil
	}}
	_, err := NewQuoteDynamoRepository(f, "").ApplyTransition(context.Background(), "q1", entities.QuoteTransition{
		From: entities.QuoteStatusPending, To: entities.QuoteStatusCancelled,
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	expr := aws.ToString(got.UpdateExpression)
	if strings.Contains(expr, "signed") || !strings.Contains(expr, "#cancelled_at") {
		t.Fatalf("unexpected update expression %s", expr)
	}
}

func TestQuoteRepository_ApplyTransitionConditionFailed(t *testing.T) {
	signed := sampleQuote()
	signed.Status = entities.QuoteStatusSigned

	tests := []struct {
		name    string
		items   map[string]map[string]types.AttributeValue
		wantErr error
		wantID  string
	}{
		{"status moved on", map[string]map[string]types.AttributeValue{"q1": mustMarshal(t, toQuoteItem(signed))}, interfaces.ErrQuoteStatusMismatch, ""},
		{"quote missing", map[string]map[string]types.AttributeValue{}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeDynamo{
				items: tt.items,
				updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
					return nil, &types.ConditionalCheckFailedException{Message: aws.String("failed")}
				},
			}
			q, err := NewQuoteDynamoRepository(f, "").ApplyTransition(context.Background(), "q1", entities.QuoteTransition{
				From: entities.QuoteStatusPending, To: entities.QuoteStatusSigned,
			})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if q.ID != tt.wantID {
				t.Fatalf("unexpected quote %+v", q)
			}
		})
	}
}

func TestQuoteRepository_ApplyTransitionRejectsPending(t *testing.T) {
	_, err := NewQuoteDynamoRepository(&fakeDynamo{}, "").ApplyTransition(context.Background(), "q1", entities.QuoteTransition{
		From: entities.QuoteStatusPending, To: entities.QuoteStatusPending,
	})
	if err == nil {
		t.Fatal("expected error for non terminal target")
	}
}

func TestInvoiceRepository_CreateConflict(t *testing.T) {
	f := &fakeDynamo{putItem: func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}}
	_, err := NewInvoiceDynamoRepository(f, "").Create(context.Background(), entities.Invoice{ID: "i1"})
	if !errors.Is(err, interfaces.ErrInvoiceExists) {
		t.Fatalf("expected ErrInvoiceExists, got %v", err)
	}
}

func TestInvoiceRepository_ListByQuoteID(t *testing.T) {
	var got *dynamodb.QueryInput
	f := &fakeDynamo{query: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
		got = in
		return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
			mustMarshal(t, toInvoiceItem(entities.Invoice{ID: "i1", Number: 1, QuoteID: "q1", Type: entities.InvoiceTypeDeposit})),
		}}, nil
	}}
	list, err := NewInvoiceDynamoRepository(f, "billing-invoices").ListByQuoteID(context.Background(), "q1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Type != entities.InvoiceTypeDeposit {
		t.Fatalf("unexpected list %+v", list)
	}
	if aws.ToString(got.IndexName) != "quote_id-index" || aws.ToString(got.TableName) != "billing-invoices" {
		t.Fatalf("unexpected query %+v", got)
	}
}

func TestProjectRepository_GetByID(t *testing.T) {
	p := entities.Project{ID: "p1", OwnerID: "u1", Name: "Site", Amount: 900, Client: entities.Client{Name: "Ana", Email: "ana@example.com"}}
	var stored map[string]types.AttributeValue
	f := &fakeDynamo{
		putItem: func(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
			stored = in.Item
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	f.getItem = func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
		return &dynamodb.GetItemOutput{Item: stored}, nil
	}
	repo := NewProjectDynamoRepository(f, "")
	if err := repo.Save(context.Background(), p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSequenceRepository_Next(t *testing.T) {
	var got *dynamodb.UpdateItemInput
	f := &fakeDynamo{updateItem: func(in *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		got = in
		return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
			"value": &types.AttributeValueMemberN{Value: "17"},
		}}, nil
	}}
	n, err := NewSequenceDynamoRepository(f, "").Next(context.Background(), interfaces.SequenceQuote)
	if err != nil || n != 17 {
		t.Fatalf("expected 17, got %d %v", n, err)
	}
	if aws.ToString(got.UpdateExpression) != "ADD #value :one" || got.ReturnValues != types.ReturnValueUpdatedNew {
		t.Fatalf("unexpected update %+v", got)
	}
	if v := got.Key["name"].(*types.AttributeValueMemberS).Value; v != "quote" {
		t.Fatalf("unexpected key %s", v)
	}
}

func TestSequenceRepository_Errors(t *testing.T) {
	f := &fakeDynamo{updateItem: func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
		return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{}}, nil
	}}
	repo := NewSequenceDynamoRepository(f, "")
	if _, err := repo.Next(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := repo.Next(context.Background(), "quote"); err == nil {
		t.Fatal("expected error for missing counter value")
	}
}
