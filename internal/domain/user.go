package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	FullName     string    `json:"full_name" dynamodbav:"full_name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required"`
	// InviteToken, when present, is redeemed after registration to grant
	// membership in the board the token was issued for.
	InviteToken string `json:"invite_token"`
}
