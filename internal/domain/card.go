package domain

import "time"

type Card struct {
	CardID      string    `json:"id" dynamodbav:"card_id"`
	BoardID     string    `json:"board_id" dynamodbav:"board_id"`
	ColumnID    string    `json:"column_id" dynamodbav:"column_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	AssignedTo  string    `json:"assigned_to" dynamodbav:"assigned_to"`
	Label       string    `json:"label" dynamodbav:"label"`
	Sequence    int       `json:"sequence" dynamodbav:"sequence"`
	DateCreated time.Time `json:"date_created" dynamodbav:"date_created"`
}

type CreateCardRequest struct {
	CardID   string `json:"id" validate:"required"`
	ColumnID string `json:"column_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Sequence int    `json:"sequence"`
}

type UpdateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Label       *string `json:"label"`
	ColumnID    *string `json:"column_id"`
	Sequence    *int    `json:"sequence"`
}
