package session

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

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func userWithPassword(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{UserID: "u1", Email: "alice@example.com", PasswordHash: string(hash)}
}

func TestLogin_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	signer := &mockSigner{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(userWithPassword(t, "secret"), nil)
	signer.On("Sign", "u1", "alice@example.com").Return("bearer-token", nil)

	svc := NewService(us, signer)
	result, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Bearer)
	assert.Equal(t, "u1", result.User.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(userWithPassword(t, "secret"), nil)

	svc := NewService(us, &mockSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UnknownEmail_SameError(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us, &mockSigner{})
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogin_NoSigner(t *testing.T) {
	svc := NewService(&mockUserStore{}, nil)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "alice@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
