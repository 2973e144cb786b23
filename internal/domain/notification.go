package domain

import "time"

// NotificationTypeBoardInvite is the only notification type the
// reconciliation path acts on.
const NotificationTypeBoardInvite = "board_invite"

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Type           string    `json:"type" dynamodbav:"type"`
	Message        string    `json:"message" dynamodbav:"message"`
	BoardID        string    `json:"board_id" dynamodbav:"board_id"`
	BoardName      string    `json:"board_name" dynamodbav:"board_name"`
	FromUser       string    `json:"from_user" dynamodbav:"from_user"`
	IsRead         bool      `json:"is_read" dynamodbav:"is_read"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}
