package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-kanban-api/internal/domain"
)

// BoardRepo provides typed DynamoDB operations for the boards table.
//
// The users attribute is never unmarshalled directly into the Board
// struct: historical documents carry mixed S/N entries, so every read
// goes through usersFromItem to canonicalise them to strings.
type BoardRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBoardRepo(client *dynamodb.Client, tableName string) *BoardRepo {
	return &BoardRepo{client: client, tableName: tableName}
}

// Put creates the board document. The condition rejects an id that is
// already taken: an unconditional PutItem would replace the existing
// document and wipe its users list.
func (r *BoardRepo) Put(ctx context.Context, b *domain.Board) error {
	if b.Users == nil {
		b.Users = []string{}
	}
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(board_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("board id already in use: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *BoardRepo) Get(ctx context.Context, boardID string) (*domain.Board, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("board_id", boardID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("board not found: %w", domain.ErrNotFound)
	}
	return unmarshalBoard(out.Item)
}

// ListByOwner queries the created_by GSI for boards the user created.
func (r *BoardRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Board, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("created_by-index"),
		KeyConditionExpression: aws.String("created_by = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalBoards(out.Items)
}

// ListByMember scans for boards whose users list contains userID. The
// filter matches both the S and N stored forms; callers still re-check
// membership on the canonicalised result.
func (r *BoardRepo) ListByMember(ctx context.Context, userID string) ([]domain.Board, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("contains(#u, :s) OR contains(#u, :n)"),
		ExpressionAttributeNames: map[string]string{
			"#u": "users",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: userID},
			":n": &types.AttributeValueMemberN{Value: numericOrZero(userID)},
		},
	})
	if err != nil {
		return nil, err
	}
	return unmarshalBoards(out.Items)
}

// AddMember appends userID to the board's users list with a single
// conditional UpdateItem. The condition makes the append idempotent and
// safe under concurrent invites to the same board: DynamoDB serialises
// the two updates, and the loser's condition fails instead of clobbering.
// Returns true when the list was modified, false when the user was
// already present.
func (r *BoardRepo) AddMember(ctx context.Context, boardID, userID string) (bool, error) {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("board_id", boardID),
		UpdateExpression:    aws.String("SET #u = list_append(if_not_exists(#u, :empty), :new)"),
		ConditionExpression: aws.String("attribute_exists(board_id) AND NOT contains(#u, :uid)"),
		ExpressionAttributeNames: map[string]string{
			"#u": "users",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":new": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: userID},
			}},
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// Either the board is gone or the user is already a member.
			// Callers check board existence first, so treat as the latter.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *BoardRepo) Update(ctx context.Context, boardID string, updates map[string]interface{}) error {
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("board_id", boardID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *BoardRepo) Delete(ctx context.Context, boardID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("board_id", boardID),
	})
	return err
}

// GetAudit returns the raw users entries of one board with their stored
// attribute types.
func (r *BoardRepo) GetAudit(ctx context.Context, boardID string) (*domain.BoardAudit, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("board_id", boardID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("board not found: %w", domain.ErrNotFound)
	}
	return auditFromItem(out.Item), nil
}

// ScanAudit returns the audit view of every board. Operator tooling only.
func (r *BoardRepo) ScanAudit(ctx context.Context) ([]domain.BoardAudit, error) {
	var audits []domain.BoardAudit
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			audits = append(audits, *auditFromItem(item))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return audits, nil
}

func unmarshalBoard(item map[string]types.AttributeValue) (*domain.Board, error) {
	users := usersFromItem(item)
	delete(item, "users")
	var b domain.Board
	if err := attributevalue.UnmarshalMap(item, &b); err != nil {
		return nil, err
	}
	b.Users = users
	return &b, nil
}

func unmarshalBoards(items []map[string]types.AttributeValue) ([]domain.Board, error) {
	boards := make([]domain.Board, 0, len(items))
	for _, item := range items {
		b, err := unmarshalBoard(item)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	return boards, nil
}

func auditFromItem(item map[string]types.AttributeValue) *domain.BoardAudit {
	audit := &domain.BoardAudit{Users: auditUsersFromItem(item)}
	if v, ok := item["board_id"].(*types.AttributeValueMemberS); ok {
		audit.BoardID = v.Value
	}
	if v, ok := item["name"].(*types.AttributeValueMemberS); ok {
		audit.Name = v.Value
	}
	if v, ok := item["created_by"].(*types.AttributeValueMemberS); ok {
		audit.CreatedBy = v.Value
	}
	return audit
}

// numericOrZero returns userID when it is a plain number (so the N-typed
// contains filter is meaningful) and "0" otherwise; DynamoDB rejects
// non-numeric N values.
func numericOrZero(userID string) string {
	for _, c := range userID {
		if c < '0' || c > '9' {
			return "0"
		}
	}
	if userID == "" {
		return "0"
	}
	return userID
}
