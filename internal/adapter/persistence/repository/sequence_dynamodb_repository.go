package repository

import (
	"context"
	"fmt"
	"strconv"

	"client_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultCountersTableName = "counters"

// SequenceDynamoRepository allocates numbers from a counters table.
//
// Table requirements:
//   - PK: name (string)
//
// Each call is one UpdateItem with ADD, which DynamoDB applies atomically, so
// concurrent callers always receive distinct values.

type SequenceDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.ISequenceAllocator = (*SequenceDynamoRepository)(nil)

func NewSequenceDynamoRepository(ddb DynamoDBAPI, tableName string) *SequenceDynamoRepository {
	return &SequenceDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultCountersTableName),
	}
}

func (r *SequenceDynamoRepository) Next(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("sequence name is required")
	}
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		},
		UpdateExpression:         aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("allocate %s number: %w", name, err)
	}
	n, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("allocate %s number: counter value missing", name)
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("allocate %s number: %w", name, err)
	}
	return v, nil
}
