package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kanban-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListFor(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListUnreadBoardInvites(ctx context.Context, userID, boardID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, boardID)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) MarkRead(ctx context.Context, notificationID string, isRead bool) error {
	return m.Called(ctx, notificationID, isRead).Error(0)
}
func (m *mockStore) MarkAllRead(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- tests ---

func TestCreateBoardInvite_DefaultsApplied(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	svc := NewService(store)
	n, err := svc.CreateBoardInvite(context.Background(), "u2", "b1", "", "")

	require.NoError(t, err)
	assert.Equal(t, domain.NotificationTypeBoardInvite, n.Type)
	assert.Equal(t, "Unnamed Board", n.BoardName)
	assert.Equal(t, "Unknown User", n.FromUser)
	assert.False(t, n.IsRead)
	assert.Contains(t, n.Message, "Unnamed Board")
}

func TestListFor_StoreFault_ReturnsEmpty(t *testing.T) {
	store := &mockStore{}
	store.On("ListFor", mock.Anything, "u1").Return(nil, errors.New("table unavailable"))

	svc := NewService(store)
	notifications := svc.ListFor(context.Background(), "u1")

	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}

func TestListFor_HappyPath(t *testing.T) {
	store := &mockStore{}
	store.On("ListFor", mock.Anything, "u1").Return([]domain.Notification{
		{NotificationID: "n1"}, {NotificationID: "n2"},
	}, nil)

	svc := NewService(store)
	assert.Len(t, svc.ListFor(context.Background(), "u1"), 2)
}

func TestMarkRead_OtherUsersRecord_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", UserID: "u9",
	}, nil)

	svc := NewService(store)
	_, err := svc.MarkRead(context.Background(), "n1", "u1", true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	store.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_HappyPath(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{
		NotificationID: "n1", UserID: "u1", IsRead: false,
	}, nil)
	store.On("MarkRead", mock.Anything, "n1", true).Return(nil)

	svc := NewService(store)
	n, err := svc.MarkRead(context.Background(), "n1", "u1", true)

	require.NoError(t, err)
	assert.True(t, n.IsRead)
	store.AssertExpectations(t)
}

func TestMarkAllRead_ReportsModifiedCount(t *testing.T) {
	store := &mockStore{}
	store.On("MarkAllRead", mock.Anything, "u1").Return(3, nil)

	svc := NewService(store)
	assert.Equal(t, 3, svc.MarkAllRead(context.Background(), "u1"))
}

func TestMarkAllRead_StoreFault_ReportsZero(t *testing.T) {
	store := &mockStore{}
	store.On("MarkAllRead", mock.Anything, "u1").Return(1, errors.New("partial failure"))

	svc := NewService(store)
	assert.Equal(t, 0, svc.MarkAllRead(context.Background(), "u1"))
}

func TestHasUnreadBoardInvite(t *testing.T) {
	store := &mockStore{}
	store.On("ListUnreadBoardInvites", mock.Anything, "u1", "b1").
		Return([]domain.Notification{{NotificationID: "n1"}}, nil)

	svc := NewService(store)
	ok, err := svc.HasUnreadBoardInvite(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.True(t, ok)
}
