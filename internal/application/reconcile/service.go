package reconcile

import (
	"context"
	"fmt"

	"github.com/go-kanban-api/internal/domain"
)

// Service repairs drift between the board membership lists and the
// notification/invite-token records. The invite dual write is not
// atomic, so a notification can exist for a board the membership list
// does not reflect; these narrow operations run opportunistically on the
// read paths most likely to expose that, bounding staleness to the next
// time the user touches the affected notification or board.
type Service interface {
	RepairMembership(ctx context.Context, boardID, userID string) error
	RepairFromNotification(ctx context.Context, notificationID string) error
	RepairInvitation(ctx context.Context, userID, boardID string) error
	AuditBoard(ctx context.Context, boardID string) (*domain.BoardAudit, error)
	AuditAll(ctx context.Context) ([]domain.BoardAudit, error)
	DebugBoards(ctx context.Context, userID string) (*DebugReport, error)
}

// DebugReport is the operator diagnostic combining a user's view of the
// board space with the raw audit of every board.
type DebugReport struct {
	PersonalBoards []domain.Board      `json:"personal_boards"`
	InvitedBoards  []domain.Board      `json:"invited_boards"`
	AllBoards      []domain.BoardAudit `json:"all_boards"`
}

type membership interface {
	AddMember(ctx context.Context, boardID, userID string) error
	ListOwned(ctx context.Context, userID string) ([]domain.Board, error)
	ListShared(ctx context.Context, userID string) ([]domain.Board, error)
}

type notificationStore interface {
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListBoardInvites(ctx context.Context, userID, boardID string) ([]domain.Notification, error)
}

type auditStore interface {
	GetAudit(ctx context.Context, boardID string) (*domain.BoardAudit, error)
	ScanAudit(ctx context.Context) ([]domain.BoardAudit, error)
}

type service struct {
	boards        membership
	notifications notificationStore
	audits        auditStore
}

type ServiceDeps struct {
	Membership       membership
	NotificationRepo notificationStore
	AuditRepo        auditStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		boards:        deps.Membership,
		notifications: deps.NotificationRepo,
		audits:        deps.AuditRepo,
	}
}

// RepairMembership idempotently ensures the user appears in the board's
// membership list. Delegates to the one sanctioned mutator, so a repeat
// call is a no-op.
func (s *service) RepairMembership(ctx context.Context, boardID, userID string) error {
	if boardID == "" || userID == "" {
		return fmt.Errorf("board id and user id are required: %w", domain.ErrBadRequest)
	}
	return s.boards.AddMember(ctx, boardID, userID)
}

// RepairFromNotification closes the gap where the invite's membership
// write failed but its notification write succeeded: given a board
// invite record, re-grant the membership it implies. Non-invite
// notifications are ignored.
func (s *service) RepairFromNotification(ctx context.Context, notificationID string) error {
	n, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.Type != domain.NotificationTypeBoardInvite {
		return nil
	}
	return s.boards.AddMember(ctx, n.BoardID, n.UserID)
}

// RepairInvitation is the self-service variant: a user who can see an
// invite notification for a board but not the board itself asks for the
// membership to be re-granted. The grant only happens when an invite
// notification actually exists for that user and board.
func (s *service) RepairInvitation(ctx context.Context, userID, boardID string) error {
	if boardID == "" {
		return fmt.Errorf("board id is required: %w", domain.ErrBadRequest)
	}
	invites, err := s.notifications.ListBoardInvites(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if len(invites) == 0 {
		return fmt.Errorf("no invite found for board %s: %w", boardID, domain.ErrNotFound)
	}
	return s.boards.AddMember(ctx, boardID, userID)
}

func (s *service) AuditBoard(ctx context.Context, boardID string) (*domain.BoardAudit, error) {
	return s.audits.GetAudit(ctx, boardID)
}

func (s *service) AuditAll(ctx context.Context) ([]domain.BoardAudit, error) {
	return s.audits.ScanAudit(ctx)
}

func (s *service) DebugBoards(ctx context.Context, userID string) (*DebugReport, error) {
	personal, err := s.boards.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	invited, err := s.boards.ListShared(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.audits.ScanAudit(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugReport{
		PersonalBoards: personal,
		InvitedBoards:  invited,
		AllBoards:      all,
	}, nil
}
