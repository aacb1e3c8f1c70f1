package repository

import (
	"context"

	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultInvoicesTableName = "invoices"
	invoicesQuoteIDIndex     = "quote_id-index"
)

type invoiceItem struct {
	ID          string  `dynamodbav:"id"`
	Number      int64   `dynamodbav:"number"`
	QuoteID     string  `dynamodbav:"quote_id"`
	ProjectID   string  `dynamodbav:"project_id"`
	ClientName  string  `dynamodbav:"client_name"`
	ProjectName string  `dynamodbav:"project_name"`
	Amount      float64 `dynamodbav:"amount"`
	Type        string  `dynamodbav:"type"`
	DocumentURL string  `dynamodbav:"document_url"`
	CreatedAt   string  `dynamodbav:"created_at"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: quote_id-index (PK: quote_id)

type InvoiceDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb DynamoDBAPI, tableName string) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultInvoicesTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Invoice{}, interfaces.ErrInvoiceExists
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func (r *InvoiceDynamoRepository) ListByQuoteID(ctx context.Context, quoteID string) ([]entities.Invoice, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(invoicesQuoteIDIndex),
		KeyConditionExpression: aws.String("quote_id = :qid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":qid": &types.AttributeValueMemberS{Value: quoteID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Invoice, 0, len(out.Items))
	for _, raw := range out.Items {
		var it invoiceItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromInvoiceItem(it))
	}
	return items, nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	return invoiceItem{
		ID:          inv.ID,
		Number:      inv.Number,
		QuoteID:     inv.QuoteID,
		ProjectID:   inv.ProjectID,
		ClientName:  inv.ClientName,
		ProjectName: inv.ProjectName,
		Amount:      inv.Amount,
		Type:        string(inv.Type),
		DocumentURL: inv.DocumentURL,
		CreatedAt:   formatTime(inv.CreatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	return entities.Invoice{
		ID:          it.ID,
		Number:      it.Number,
		QuoteID:     it.QuoteID,
		ProjectID:   it.ProjectID,
		ClientName:  it.ClientName,
		ProjectName: it.ProjectName,
		Amount:      it.Amount,
		Type:        entities.InvoiceType(it.Type),
		DocumentURL: it.DocumentURL,
		CreatedAt:   parseTime(it.CreatedAt),
	}
}
