package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-kanban-api/internal/domain"
)

// ColumnRepo provides typed DynamoDB operations for the columns table.
type ColumnRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewColumnRepo(client *dynamodb.Client, tableName string) *ColumnRepo {
	return &ColumnRepo{client: client, tableName: tableName}
}

func (r *ColumnRepo) Put(ctx context.Context, c *domain.Column) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal column: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ColumnRepo) Get(ctx context.Context, columnID string) (*domain.Column, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("column_id", columnID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("column not found: %w", domain.ErrNotFound)
	}
	var c domain.Column
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("board_id-index"),
		KeyConditionExpression: aws.String("board_id = :bid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":bid": &types.AttributeValueMemberS{Value: boardID},
		},
	})
	if err != nil {
		return nil, err
	}
	var columns []domain.Column
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *ColumnRepo) Update(ctx context.Context, columnID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("column_id", columnID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *ColumnRepo) Delete(ctx context.Context, columnID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("column_id", columnID),
	})
	return err
}

// DeleteByBoard removes every column of a board and returns how many it
// deleted. Part of the board-delete cascade.
func (r *ColumnRepo) DeleteByBoard(ctx context.Context, boardID string) (int, error) {
	columns, err := r.ListByBoard(ctx, boardID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, c := range columns {
		if err := r.Delete(ctx, c.ColumnID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
