package repository

import (
	"context"
	"fmt"
	"time"

	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotesTableName = "quotes"
	projectGuardPrefix     = "project#"
)

type quoteItem struct {
	ID                string  `dynamodbav:"id"`
	ProjectID         string  `dynamodbav:"project_id"`
	Number            int64   `dynamodbav:"number"`
	Status            string  `dynamodbav:"status"`
	Amount            float64 `dynamodbav:"amount"`
	DocumentURL       string  `dynamodbav:"document_url"`
	SignaturePage     int     `dynamodbav:"signature_page"`
	SignedDocumentURL string  `dynamodbav:"signed_document_url,omitempty"`
	SignedAt          string  `dynamodbav:"signed_at,omitempty"`
	CancelledAt       string  `dynamodbav:"cancelled_at,omitempty"`
	CreatedAt         string  `dynamodbav:"created_at"`
	UpdatedAt         string  `dynamodbav:"updated_at"`
}

type projectGuardItem struct {
	ID        string `dynamodbav:"id"`
	QuoteID   string `dynamodbav:"quote_id"`
	CreatedAt string `dynamodbav:"created_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Next to every quote the table holds a guard item "project#<project_id>"
// pointing at it. Both are written in one transaction conditioned on
// attribute_not_exists, which is what keeps a project to a single quote.

type QuoteDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb DynamoDBAPI, tableName string) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	quoteAV, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}
	guardAV, err := attributevalue.MarshalMap(projectGuardItem{
		ID:        projectGuardPrefix + q.ProjectID,
		QuoteID:   q.ID,
		CreatedAt: formatTime(q.CreatedAt),
	})
	if err != nil {
		return entities.Quote{}, err
	}

	notExists := func(item map[string]types.AttributeValue) *types.Put {
		return &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}
	}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: notExists(guardAV)},
			{Put: notExists(quoteAV)},
		},
	})
	if err != nil {
		if isTransactionConditionFailed(err) {
			return entities.Quote{}, interfaces.ErrProjectQuoteExists
		}
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	if it.ProjectID == "" {
		// guard items share the table but are not quotes
		return entities.Quote{}, nil
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) GetByProjectID(ctx context.Context, projectID string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(projectGuardPrefix + projectID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}
	var guard projectGuardItem
	if err := attributevalue.UnmarshalMap(out.Item, &guard); err != nil {
		return entities.Quote{}, err
	}
	if guard.QuoteID == "" {
		return entities.Quote{}, nil
	}
	return r.GetByID(ctx, guard.QuoteID)
}

func (r *QuoteDynamoRepository) ApplyTransition(ctx context.Context, id string, t entities.QuoteTransition) (entities.Quote, error) {
	at := t.At
	if at.IsZero() {
		at = time.Now()
	}
	now := formatTime(at)

	expr := "SET #status = :to, #updated_at = :now"
	vals := map[string]types.AttributeValue{
		":from": &types.AttributeValueMemberS{Value: string(t.From)},
		":to":   &types.AttributeValueMemberS{Value: string(t.To)},
		":now":  &types.AttributeValueMemberS{Value: now},
	}
	names := map[string]string{
		"#status":     "status",
		"#updated_at": "updated_at",
	}
	switch t.To {
	case entities.QuoteStatusSigned:
		expr += ", #signed_document_url = :signed_url, #signed_at = :now"
		vals[":signed_url"] = &types.AttributeValueMemberS{Value: t.SignedDocumentURL}
		names["#signed_document_url"] = "signed_document_url"
		names["#signed_at"] = "signed_at"
	case entities.QuoteStatusCancelled:
		expr += ", #cancelled_at = :now"
		names["#cancelled_at"] = "cancelled_at"
	default:
		return entities.Quote{}, fmt.Errorf("unsupported target status %q", t.To)
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :from"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: vals,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if !isConditionFailed(err) {
			return entities.Quote{}, err
		}
		current, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return entities.Quote{}, gerr
		}
		if current.ID == "" {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, fmt.Errorf("%w: quote %s is %s, expected %s", interfaces.ErrQuoteStatusMismatch, id, current.Status, t.From)
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		ID:                q.ID,
		ProjectID:         q.ProjectID,
		Number:            q.Number,
		Status:            string(q.Status),
		Amount:            q.Amount,
		DocumentURL:       q.DocumentURL,
		SignaturePage:     q.SignaturePage,
		SignedDocumentURL: q.SignedDocumentURL,
		SignedAt:          formatTimePtr(q.SignedAt),
		CancelledAt:       formatTimePtr(q.CancelledAt),
		CreatedAt:         formatTime(q.CreatedAt),
		UpdatedAt:         formatTime(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	return entities.Quote{
		ID:                it.ID,
		ProjectID:         it.ProjectID,
		Number:            it.Number,
		Status:            entities.QuoteStatus(it.Status),
		Amount:            it.Amount,
		DocumentURL:       it.DocumentURL,
		SignaturePage:     it.SignaturePage,
		SignedDocumentURL: it.SignedDocumentURL,
		SignedAt:          parseTimePtr(it.SignedAt),
		CancelledAt:       parseTimePtr(it.CancelledAt),
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
}
