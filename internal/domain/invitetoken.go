package domain

import "time"

const (
	InviteTokenValid    = "valid"
	InviteTokenConsumed = "consumed"
)

// InviteToken binds a one-time token to an email address and a target
// board, for invitees without an existing account. ExpiresAt is a Unix
// timestamp used as DynamoDB TTL.
type InviteToken struct {
	InviteID  string    `json:"id" dynamodbav:"invite_id"`
	Token     string    `json:"token" dynamodbav:"token"`
	Email     string    `json:"email" dynamodbav:"email"`
	BoardID   string    `json:"board_id" dynamodbav:"board_id"`
	CreatedBy string    `json:"created_by" dynamodbav:"created_by"`
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
}
