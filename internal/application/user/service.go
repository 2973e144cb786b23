package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-kanban-api/internal/domain"
	"github.com/go-kanban-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type tokenRedeemer interface {
	RedeemToken(ctx context.Context, token, userID string) error
}

type service struct {
	repo     userStore
	redeemer tokenRedeemer
}

type ServiceDeps struct {
	UserRepo userStore
	Redeemer tokenRedeemer
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, redeemer: deps.Redeemer}
}

// Register creates the account and, when the request carries an invite
// token, redeems it to grant the pending board membership. The
// redemption is a separate write from account creation; a failure is
// logged and left for the repair endpoints rather than failing the
// registration.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email is already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	if req.InviteToken != "" && s.redeemer != nil {
		if err := s.redeemer.RedeemToken(ctx, req.InviteToken, u.UserID); err != nil {
			slog.Warn("invite token redemption failed at registration",
				"user_id", u.UserID, "err", err)
		}
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
