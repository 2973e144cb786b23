package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-kanban-api/internal/domain"
	"github.com/go-kanban-api/internal/pkg/id"
)

// Service owns per-user notification records. Read and bulk-write faults
// are swallowed so the notification bell never blocks the rest of the UI;
// they are logged here instead of disappearing entirely.
type Service interface {
	CreateBoardInvite(ctx context.Context, targetUserID, boardID, boardName, fromName string) (*domain.Notification, error)
	ListFor(ctx context.Context, userID string) []domain.Notification
	MarkRead(ctx context.Context, notificationID, requesterID string, isRead bool) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) int
	HasUnreadBoardInvite(ctx context.Context, userID, boardID string) (bool, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListFor(ctx context.Context, userID string) ([]domain.Notification, error)
	ListUnreadBoardInvites(ctx context.Context, userID, boardID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string, isRead bool) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo notificationStore
}

func NewService(repo notificationStore) Service {
	return &service{repo: repo}
}

func (s *service) CreateBoardInvite(ctx context.Context, targetUserID, boardID, boardName, fromName string) (*domain.Notification, error) {
	if boardName == "" {
		boardName = "Unnamed Board"
	}
	if fromName == "" {
		fromName = "Unknown User"
	}
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         targetUserID,
		Type:           domain.NotificationTypeBoardInvite,
		Message:        fmt.Sprintf("You have been invited to board %q", boardName),
		BoardID:        boardID,
		BoardName:      boardName,
		FromUser:       fromName,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListFor returns the user's notifications, most recent first. Any store
// fault is logged and reported as an empty list, never an error.
func (s *service) ListFor(ctx context.Context, userID string) []domain.Notification {
	notifications, err := s.repo.ListFor(ctx, userID)
	if err != nil {
		slog.Warn("failed to list notifications, returning empty", "user_id", userID, "err", err)
		return []domain.Notification{}
	}
	if notifications == nil {
		return []domain.Notification{}
	}
	return notifications
}

// MarkRead flips one record's read flag. A record owned by another user
// is reported as not found: the existence of someone else's notification
// is not leaked through a distinct forbidden response.
func (s *service) MarkRead(ctx context.Context, notificationID, requesterID string, isRead bool) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != requesterID {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	if err := s.repo.MarkRead(ctx, notificationID, isRead); err != nil {
		return nil, err
	}
	n.IsRead = isRead
	return n, nil
}

// MarkAllRead reports the number of records it flipped; zero on any
// failure. The fault is logged rather than surfaced.
func (s *service) MarkAllRead(ctx context.Context, userID string) int {
	modified, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		slog.Warn("failed to mark all notifications read", "user_id", userID, "modified", modified, "err", err)
		return 0
	}
	return modified
}

func (s *service) HasUnreadBoardInvite(ctx context.Context, userID, boardID string) (bool, error) {
	invites, err := s.repo.ListUnreadBoardInvites(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	return len(invites) > 0, nil
}
