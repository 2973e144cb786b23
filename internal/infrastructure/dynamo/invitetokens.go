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

// InviteTokenRepo provides typed DynamoDB operations for the
// invite_tokens table. Expired rows are removed by the table's TTL.
type InviteTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInviteTokenRepo(client *dynamodb.Client, tableName string) *InviteTokenRepo {
	return &InviteTokenRepo{client: client, tableName: tableName}
}

func (r *InviteTokenRepo) Put(ctx context.Context, t *domain.InviteToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal invite token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InviteTokenRepo) GetByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("token-index"),
		KeyConditionExpression: aws.String("#t = :v"),
		ExpressionAttributeNames: map[string]string{
			"#t": "token",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("invite token not found: %w", domain.ErrNotFound)
	}
	var t domain.InviteToken
	if err := attributevalue.UnmarshalMap(out.Items[0], &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *InviteTokenRepo) MarkConsumed(ctx context.Context, inviteID string) error {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{fieldStatus: domain.InviteTokenConsumed})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("invite_id", inviteID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
