package domain

import "time"

type Column struct {
	ColumnID    string    `json:"id" dynamodbav:"column_id"`
	BoardID     string    `json:"board_id" dynamodbav:"board_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Sequence    int       `json:"sequence" dynamodbav:"sequence"`
	DateCreated time.Time `json:"date_created" dynamodbav:"date_created"`
}

type CreateColumnRequest struct {
	ColumnID string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Sequence int    `json:"sequence"`
}

type UpdateColumnRequest struct {
	Name     *string `json:"name"`
	Sequence *int    `json:"sequence"`
}
