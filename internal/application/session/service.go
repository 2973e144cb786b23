package session

import (
	"context"
	"fmt"

	"github.com/go-kanban-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Bearer string
	User   *domain.User
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenSigner issues the bearer returned on login. Nil when the signing
// keys are not configured; login is then refused rather than issuing
// unsigned tokens.
type TokenSigner interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	users userStore
	jwt   TokenSigner
}

func NewService(users userStore, jwt TokenSigner) Service {
	return &service{users: users, jwt: jwt}
}

// Login checks credentials and issues a signed token. An unknown email
// and a wrong password produce the same error so accounts are not
// enumerable.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if s.jwt == nil {
		return nil, fmt.Errorf("login is not available: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwt.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Bearer: bearer, User: u}, nil
}
