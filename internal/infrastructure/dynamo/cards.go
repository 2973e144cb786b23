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

// CardRepo provides typed DynamoDB operations for the cards table.
type CardRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCardRepo(client *dynamodb.Client, tableName string) *CardRepo {
	return &CardRepo{client: client, tableName: tableName}
}

func (r *CardRepo) Put(ctx context.Context, c *domain.Card) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CardRepo) Get(ctx context.Context, cardID string) (*domain.Card, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("card_id", cardID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("card not found: %w", domain.ErrNotFound)
	}
	var c domain.Card
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CardRepo) ListByBoard(ctx context.Context, boardID string) ([]domain.Card, error) {
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
	var cards []domain.Card
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *CardRepo) Update(ctx context.Context, cardID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("card_id", cardID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *CardRepo) Delete(ctx context.Context, cardID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("card_id", cardID),
	})
	return err
}

// DeleteByBoard removes every card of a board and returns how many it
// deleted. Part of the board-delete cascade.
func (r *CardRepo) DeleteByBoard(ctx context.Context, boardID string) (int, error) {
	cards, err := r.ListByBoard(ctx, boardID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, c := range cards {
		if err := r.Delete(ctx, c.CardID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
