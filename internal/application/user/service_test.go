package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kanban-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockRedeemer struct{ mock.Mock }

func (m *mockRedeemer) RedeemToken(ctx context.Context, token, userID string) error {
	return m.Called(ctx, token, userID).Error(0)
}

// --- tests ---

func baseReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice Smith",
	}
}

func TestRegister_EmailConflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.User{}, nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: us})
	u, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, "Alice Smith", u.FullName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
	us.AssertExpectations(t)
}

func TestRegister_WithInviteToken_RedeemsIt(t *testing.T) {
	us := &mockUserStore{}
	rd := &mockRedeemer{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	rd.On("RedeemToken", mock.Anything, "tok", mock.AnythingOfType("string")).Return(nil)

	svc := NewService(ServiceDeps{UserRepo: us, Redeemer: rd})
	req := baseReq()
	req.InviteToken = "tok"
	_, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	rd.AssertExpectations(t)
}

func TestRegister_RedemptionFailure_DoesNotFailRegistration(t *testing.T) {
	us := &mockUserStore{}
	rd := &mockRedeemer{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	rd.On("RedeemToken", mock.Anything, "tok", mock.AnythingOfType("string")).
		Return(errors.New("token expired"))

	svc := NewService(ServiceDeps{UserRepo: us, Redeemer: rd})
	req := baseReq()
	req.InviteToken = "tok"
	u, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
}
