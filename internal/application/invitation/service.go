package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-kanban-api/internal/domain"
	"github.com/go-kanban-api/internal/infrastructure/smtp"
	"github.com/go-kanban-api/internal/infrastructure/sns"
	"github.com/go-kanban-api/internal/pkg/id"
	pkgtoken "github.com/go-kanban-api/internal/pkg/token"
)

// Invite outcomes reported to the caller so it can render the right
// confirmation message.
const (
	OutcomeMemberAdded = "member_added"
	OutcomeTokenIssued = "token_issued"
)

// InviteResult is the success payload of one invite operation. Email
// delivery failure is a flag here, never an error.
type InviteResult struct {
	Outcome             string `json:"outcome"`
	BoardID             string `json:"board_id"`
	BoardName           string `json:"board_name"`
	UserID              string `json:"user_id,omitempty"`
	NotificationCreated bool   `json:"notification_created"`
	EmailSent           bool   `json:"email_sent"`
}

// Service coordinates a single invite across the user store, the board
// membership list, the notification store and outbound email. The two
// writes of the existing-user path are deliberately not atomic; both are
// attempted and reconciliation repairs any partial failure.
type Service interface {
	Invite(ctx context.Context, inviterID, email, boardID string) (*InviteResult, error)
	VerifyToken(ctx context.Context, token string) (*domain.InviteToken, error)
	RedeemToken(ctx context.Context, token, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type membership interface {
	Get(ctx context.Context, boardID, requesterID string) (*domain.Board, error)
	AddMember(ctx context.Context, boardID, userID string) error
	IsMember(ctx context.Context, boardID, userID string) (bool, error)
}

type inviteTokenStore interface {
	Put(ctx context.Context, t *domain.InviteToken) error
	GetByToken(ctx context.Context, token string) (*domain.InviteToken, error)
	MarkConsumed(ctx context.Context, inviteID string) error
}

type notifier interface {
	CreateBoardInvite(ctx context.Context, targetUserID, boardID, boardName, fromName string) (*domain.Notification, error)
	HasUnreadBoardInvite(ctx context.Context, userID, boardID string) (bool, error)
}

type service struct {
	users           userStore
	boards          membership
	tokens          inviteTokenStore
	notifications   notifier
	mailer          smtp.Mailer
	events          sns.EventPublisher
	baseURL         string
	tokenExpiry     time.Duration
	allowDuplicates bool
}

type ServiceDeps struct {
	UserRepo        userStore
	Membership      membership
	InviteTokenRepo inviteTokenStore
	Notifications   notifier
	Mailer          smtp.Mailer
	Events          sns.EventPublisher
	PublicBaseURL   string
	TokenExpiry     time.Duration
	AllowDuplicates bool
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:           deps.UserRepo,
		boards:          deps.Membership,
		tokens:          deps.InviteTokenRepo,
		notifications:   deps.Notifications,
		mailer:          deps.Mailer,
		events:          deps.Events,
		baseURL:         deps.PublicBaseURL,
		tokenExpiry:     deps.TokenExpiry,
		allowDuplicates: deps.AllowDuplicates,
	}
}

func (s *service) Invite(ctx context.Context, inviterID, email, boardID string) (*InviteResult, error) {
	if email == "" || boardID == "" {
		return nil, fmt.Errorf("email and board id are required: %w", domain.ErrBadRequest)
	}
	inviter, err := s.users.Get(ctx, inviterID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("inviter not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	// Loading through the membership service also verifies the inviter
	// has access to the board.
	b, err := s.boards.Get(ctx, boardID, inviterID)
	if err != nil {
		return nil, err
	}

	// Only a definitive "no such account" goes down the signup-token
	// path; a store fault must surface, not invite a registered user to
	// sign up again.
	target, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return s.inviteByToken(ctx, inviter, b, email)
	}
	if err != nil {
		return nil, err
	}
	return s.inviteExisting(ctx, inviter, b, target)
}

// inviteExisting performs the dual write for a registered user:
// membership append plus notification insert. Both are attempted even if
// the first fails; the operation errors only when neither side landed.
func (s *service) inviteExisting(ctx context.Context, inviter *domain.User, b *domain.Board, target *domain.User) (*InviteResult, error) {
	isMember, err := s.boards.IsMember(ctx, b.BoardID, target.UserID)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, fmt.Errorf("user is already added to the board: %w", domain.ErrConflict)
	}

	addErr := s.boards.AddMember(ctx, b.BoardID, target.UserID)
	if addErr != nil {
		slog.Error("membership append failed, notification still attempted",
			"board_id", b.BoardID, "user_id", target.UserID, "err", addErr)
	}

	created, notifErr := s.createNotification(ctx, target.UserID, b, inviter.FullName)
	if notifErr != nil {
		slog.Error("notification insert failed",
			"board_id", b.BoardID, "user_id", target.UserID, "err", notifErr)
	}

	if addErr != nil && notifErr != nil {
		return nil, fmt.Errorf("invite failed on both writes: %w", addErr)
	}

	emailSent := s.sendMemberEmail(target.Email, b.Name)
	s.publishEvent(ctx, b.BoardID, target.Email, inviter.UserID, OutcomeMemberAdded)

	return &InviteResult{
		Outcome:             OutcomeMemberAdded,
		BoardID:             b.BoardID,
		BoardName:           b.Name,
		UserID:              target.UserID,
		NotificationCreated: created,
		EmailSent:           emailSent,
	}, nil
}

// inviteByToken handles an email with no matching account: persist a
// one-time token and send a signup link.
func (s *service) inviteByToken(ctx context.Context, inviter *domain.User, b *domain.Board, email string) (*InviteResult, error) {
	token, err := pkgtoken.NewInviteToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.InviteToken{
		InviteID:  id.New(),
		Token:     token,
		Email:     email,
		BoardID:   b.BoardID,
		CreatedBy: inviter.UserID,
		Status:    domain.InviteTokenValid,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenExpiry).Unix(),
	}
	if err := s.tokens.Put(ctx, t); err != nil {
		return nil, err
	}

	emailSent := s.sendSignupEmail(email, b, token)
	s.publishEvent(ctx, b.BoardID, email, inviter.UserID, OutcomeTokenIssued)

	return &InviteResult{
		Outcome:   OutcomeTokenIssued,
		BoardID:   b.BoardID,
		BoardName: b.Name,
		EmailSent: emailSent,
	}, nil
}

// VerifyToken resolves a signup token, rejecting consumed and expired
// ones. Used by the redemption flow before an account exists.
func (s *service) VerifyToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	t, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.InviteTokenValid {
		return nil, fmt.Errorf("invite token already used: %w", domain.ErrNotFound)
	}
	if t.ExpiresAt > 0 && t.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("invite token expired: %w", domain.ErrNotFound)
	}
	return t, nil
}

// RedeemToken completes the membership grant the token was issued for.
// The grant and the consumed flag are separate writes; AddMember's
// idempotency makes a replayed redemption harmless.
func (s *service) RedeemToken(ctx context.Context, token, userID string) error {
	t, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.boards.AddMember(ctx, t.BoardID, userID); err != nil {
		return err
	}
	if err := s.tokens.MarkConsumed(ctx, t.InviteID); err != nil {
		slog.Warn("failed to mark invite token consumed", "invite_id", t.InviteID, "err", err)
	}
	return nil
}

func (s *service) createNotification(ctx context.Context, targetUserID string, b *domain.Board, fromName string) (bool, error) {
	if !s.allowDuplicates {
		exists, err := s.notifications.HasUnreadBoardInvite(ctx, targetUserID, b.BoardID)
		if err == nil && exists {
			return false, nil
		}
	}
	if _, err := s.notifications.CreateBoardInvite(ctx, targetUserID, b.BoardID, b.Name, fromName); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) sendMemberEmail(to, boardName string) bool {
	subject := fmt.Sprintf("You are invited to join %q", boardName)
	body := fmt.Sprintf("<p>You have been added to the board %q. Open your board list to start collaborating.</p>", boardName)
	if err := s.mailer.SendEmail(to, subject, body); err != nil {
		slog.Warn("invite email delivery failed", "to", to, "err", err)
		return false
	}
	return true
}

func (s *service) sendSignupEmail(to string, b *domain.Board, token string) bool {
	link := fmt.Sprintf("%s/signup?token=%s&email=%s&boardId=%s", s.baseURL, token, to, b.BoardID)
	subject := fmt.Sprintf("You are invited to join %q", b.Name)
	body := fmt.Sprintf(`<p>You have been invited to the board %q.</p><p><a href=%q>Join Board</a></p><p>If you didn't request this invitation, you can ignore this email.</p>`, b.Name, link)
	if err := s.mailer.SendEmail(to, subject, body); err != nil {
		slog.Warn("signup invite email delivery failed", "to", to, "err", err)
		return false
	}
	return true
}

func (s *service) publishEvent(ctx context.Context, boardID, email, inviterID, outcome string) {
	if s.events == nil {
		return
	}
	ev := sns.InviteEvent{BoardID: boardID, Email: email, InvitedBy: inviterID, Outcome: outcome}
	if err := s.events.PublishInvite(ctx, ev); err != nil {
		slog.Warn("invite event publish failed", "board_id", boardID, "err", err)
	}
}
