package repository

import (
	"context"

	"client_portal/internal/domain/entities"
	"client_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultProjectsTableName = "projects"

type clientItem struct {
	Name    string `dynamodbav:"name"`
	Email   string `dynamodbav:"email"`
	Phone   string `dynamodbav:"phone,omitempty"`
	Company string `dynamodbav:"company,omitempty"`
}

type projectItem struct {
	ID          string     `dynamodbav:"id"`
	OwnerID     string     `dynamodbav:"owner_id"`
	Name        string     `dynamodbav:"name"`
	Description string     `dynamodbav:"description"`
	Amount      float64    `dynamodbav:"amount"`
	Client      clientItem `dynamodbav:"client"`
}

// ProjectDynamoRepository reads projects written by the project service.
//
// Table requirements:
//   - PK: id (string)

type ProjectDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IProjectRepository = (*ProjectDynamoRepository)(nil)

func NewProjectDynamoRepository(ddb DynamoDBAPI, tableName string) *ProjectDynamoRepository {
	return &ProjectDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, defaultProjectsTableName),
	}
}

func (r *ProjectDynamoRepository) GetByID(ctx context.Context, id string) (entities.Project, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Project{}, err
	}
	if len(out.Item) == 0 {
		return entities.Project{}, nil
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Project{}, err
	}
	return entities.Project{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Amount:      it.Amount,
		Client: entities.Client{
			Name:    it.Client.Name,
			Email:   it.Client.Email,
			Phone:   it.Client.Phone,
			Company: it.Client.Company,
		},
	}, nil
}

// Save upserts a project. Used by seeding and tests; the billing core itself
// never writes projects.
func (r *ProjectDynamoRepository) Save(ctx context.Context, p entities.Project) error {
	av, err := attributevalue.MarshalMap(projectItem{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Amount:      p.Amount,
		Client: clientItem{
			Name:    p.Client.Name,
			Email:   p.Client.Email,
			Phone:   p.Client.Phone,
			Company: p.Client.Company,
		},
	})
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}
