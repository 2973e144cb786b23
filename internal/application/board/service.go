package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-kanban-api/internal/domain"
	"github.com/go-kanban-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName            = "name"
	fieldBackgroundImage = "background_image"
	fieldDescription     = "description"
	fieldAssignedTo      = "assigned_to"
	fieldLabel           = "label"
	fieldSequence        = "sequence"
	fieldColumnID        = "column_id"
)

// Service owns the board documents and their membership lists. AddMember
// is the only path that mutates a board's users list; every grant —
// direct invite, token redemption, repair — funnels through it so the
// idempotency guarantee holds globally.
type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateBoardRequest) (*domain.Board, error)
	Get(ctx context.Context, boardID, requesterID string) (*domain.Board, error)
	List(ctx context.Context, userID string) ([]domain.Board, error)
	ListOwned(ctx context.Context, userID string) ([]domain.Board, error)
	ListShared(ctx context.Context, userID string) ([]domain.Board, error)
	Update(ctx context.Context, boardID, requesterID string, req domain.UpdateBoardRequest) (*domain.Board, error)
	Delete(ctx context.Context, boardID, requesterID string) (deletedColumns, deletedCards int, err error)
	AddMember(ctx context.Context, boardID, userID string) error
	IsMember(ctx context.Context, boardID, userID string) (bool, error)
	SetBackground(ctx context.Context, boardID, requesterID, filename, contentType string, r io.Reader) (*domain.Board, error)

	ListColumns(ctx context.Context, boardID, requesterID string) ([]domain.Column, error)
	CreateColumn(ctx context.Context, boardID, requesterID string, req domain.CreateColumnRequest) (*domain.Column, error)
	UpdateColumn(ctx context.Context, boardID, columnID, requesterID string, req domain.UpdateColumnRequest) (*domain.Column, error)
	DeleteColumn(ctx context.Context, boardID, columnID, requesterID string) error
	ListCards(ctx context.Context, boardID, requesterID string) ([]domain.Card, error)
	CreateCard(ctx context.Context, boardID, requesterID string, req domain.CreateCardRequest) (*domain.Card, error)
	UpdateCard(ctx context.Context, boardID, cardID, requesterID string, req domain.UpdateCardRequest) (*domain.Card, error)
	DeleteCard(ctx context.Context, boardID, cardID, requesterID string) error
}

type boardStore interface {
	Put(ctx context.Context, b *domain.Board) error
	Get(ctx context.Context, boardID string) (*domain.Board, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Board, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Board, error)
	AddMember(ctx context.Context, boardID, userID string) (bool, error)
	Update(ctx context.Context, boardID string, updates map[string]interface{}) error
	Delete(ctx context.Context, boardID string) error
}

type columnStore interface {
	Put(ctx context.Context, c *domain.Column) error
	Get(ctx context.Context, columnID string) (*domain.Column, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error)
	Update(ctx context.Context, columnID string, updates map[string]interface{}) error
	Delete(ctx context.Context, columnID string) error
	DeleteByBoard(ctx context.Context, boardID string) (int, error)
}

type cardStore interface {
	Put(ctx context.Context, c *domain.Card) error
	Get(ctx context.Context, cardID string) (*domain.Card, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.Card, error)
	Update(ctx context.Context, cardID string, updates map[string]interface{}) error
	Delete(ctx context.Context, cardID string) error
	DeleteByBoard(ctx context.Context, boardID string) (int, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	boards  boardStore
	columns columnStore
	cards   cardStore
	objects objectStore
}

type ServiceDeps struct {
	BoardRepo   boardStore
	ColumnRepo  columnStore
	CardRepo    cardStore
	ObjectStore objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		boards:  deps.BoardRepo,
		columns: deps.ColumnRepo,
		cards:   deps.CardRepo,
		objects: deps.ObjectStore,
	}
}

// Canonical normalises a user identifier to the single string form used
// for every membership comparison and write. Ids are opaque strings at
// this layer, so trimming is sufficient; entries persisted under a
// non-string DynamoDB attribute type are converted by canonicalID at
// the repo boundary before they reach any comparison here.
func Canonical(userID string) string {
	return strings.TrimSpace(userID)
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateBoardRequest) (*domain.Board, error) {
	if req.BoardID == "" || req.Name == "" {
		return nil, fmt.Errorf("id and name are required: %w", domain.ErrBadRequest)
	}
	// Uniqueness of the caller-assigned id is enforced by the store's
	// conditional put; a read-then-write check here would race.
	b := &domain.Board{
		BoardID:         req.BoardID,
		Name:            req.Name,
		CreatedBy:       Canonical(ownerID),
		BackgroundImage: req.BackgroundImage,
		Users:           []string{},
		DateCreated:     time.Now().UTC(),
	}
	if err := s.boards.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, boardID, requesterID string) (*domain.Board, error) {
	b, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !hasAccess(b, requesterID) {
		return nil, fmt.Errorf("no access to board: %w", domain.ErrForbidden)
	}
	return b, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Board, error) {
	owned, err := s.ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.ListShared(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(owned, shared...), nil
}

func (s *service) ListOwned(ctx context.Context, userID string) ([]domain.Board, error) {
	return s.boards.ListByOwner(ctx, Canonical(userID))
}

// ListShared returns boards the user is a member of but does not own.
// Boards where the owner erroneously appears in its own users list are
// excluded here rather than surfaced.
func (s *service) ListShared(ctx context.Context, userID string) ([]domain.Board, error) {
	uid := Canonical(userID)
	candidates, err := s.boards.ListByMember(ctx, uid)
	if err != nil {
		return nil, err
	}
	shared := make([]domain.Board, 0, len(candidates))
	for _, b := range candidates {
		if Canonical(b.CreatedBy) == uid {
			continue
		}
		if containsCanonical(b.Users, uid) {
			shared = append(shared, b)
		}
	}
	return shared, nil
}

func (s *service) Update(ctx context.Context, boardID, requesterID string, req domain.UpdateBoardRequest) (*domain.Board, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.BackgroundImage != nil {
		updates[fieldBackgroundImage] = *req.BackgroundImage
	}
	if len(updates) == 0 {
		return s.boards.Get(ctx, boardID)
	}
	if err := s.boards.Update(ctx, boardID, updates); err != nil {
		return nil, err
	}
	return s.boards.Get(ctx, boardID)
}

// Delete removes the board together with all of its columns and cards.
// Owner only. The three deletes are not transactional; orphaned columns
// or cards from a partial failure are unreachable and harmless.
func (s *service) Delete(ctx context.Context, boardID, requesterID string) (int, int, error) {
	b, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return 0, 0, err
	}
	if Canonical(b.CreatedBy) != Canonical(requesterID) {
		return 0, 0, fmt.Errorf("only the owner can delete a board: %w", domain.ErrForbidden)
	}
	deletedCards, err := s.cards.DeleteByBoard(ctx, boardID)
	if err != nil {
		return 0, deletedCards, err
	}
	deletedColumns, err := s.columns.DeleteByBoard(ctx, boardID)
	if err != nil {
		return deletedColumns, deletedCards, err
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return deletedColumns, deletedCards, err
	}
	return deletedColumns, deletedCards, nil
}

// AddMember idempotently grants userID membership. Adding the owner is a
// no-op: the owner is implicitly a member and must never appear in the
// users list.
func (s *service) AddMember(ctx context.Context, boardID, userID string) error {
	uid := Canonical(userID)
	if uid == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrBadRequest)
	}
	b, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return err
	}
	if Canonical(b.CreatedBy) == uid {
		return nil
	}
	if containsCanonical(b.Users, uid) {
		return nil
	}
	added, err := s.boards.AddMember(ctx, boardID, uid)
	if err != nil {
		return err
	}
	if !added {
		slog.Debug("membership append lost the race, user already present", "board_id", boardID, "user_id", uid)
	}
	return nil
}

func (s *service) IsMember(ctx context.Context, boardID, userID string) (bool, error) {
	b, err := s.boards.Get(ctx, boardID)
	if err != nil {
		return false, err
	}
	return hasAccess(b, userID), nil
}

func (s *service) SetBackground(ctx context.Context, boardID, requesterID, filename, contentType string, r io.Reader) (*domain.Board, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("backgrounds/%s/%s-%s", boardID, id.New(), filename)
	storedKey, err := s.objects.Upload(ctx, key, r, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.boards.Update(ctx, boardID, map[string]interface{}{fieldBackgroundImage: storedKey}); err != nil {
		return nil, err
	}
	return s.boards.Get(ctx, boardID)
}

func (s *service) ListColumns(ctx context.Context, boardID, requesterID string) ([]domain.Column, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	return s.columns.ListByBoard(ctx, boardID)
}

func (s *service) CreateColumn(ctx context.Context, boardID, requesterID string, req domain.CreateColumnRequest) (*domain.Column, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	c := &domain.Column{
		ColumnID:    req.ColumnID,
		BoardID:     boardID,
		Name:        req.Name,
		Sequence:    req.Sequence,
		DateCreated: time.Now().UTC(),
	}
	if err := s.columns.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateColumn(ctx context.Context, boardID, columnID, requesterID string, req domain.UpdateColumnRequest) (*domain.Column, error) {
	if err := s.checkColumn(ctx, boardID, columnID, requesterID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Sequence != nil {
		updates[fieldSequence] = *req.Sequence
	}
	if len(updates) > 0 {
		if err := s.columns.Update(ctx, columnID, updates); err != nil {
			return nil, err
		}
	}
	return s.columns.Get(ctx, columnID)
}

func (s *service) DeleteColumn(ctx context.Context, boardID, columnID, requesterID string) error {
	if err := s.checkColumn(ctx, boardID, columnID, requesterID); err != nil {
		return err
	}
	return s.columns.Delete(ctx, columnID)
}

func (s *service) ListCards(ctx context.Context, boardID, requesterID string) ([]domain.Card, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	return s.cards.ListByBoard(ctx, boardID)
}

func (s *service) CreateCard(ctx context.Context, boardID, requesterID string, req domain.CreateCardRequest) (*domain.Card, error) {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	c := &domain.Card{
		CardID:      req.CardID,
		BoardID:     boardID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Sequence:    req.Sequence,
		DateCreated: time.Now().UTC(),
	}
	if err := s.cards.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCard(ctx context.Context, boardID, cardID, requesterID string, req domain.UpdateCardRequest) (*domain.Card, error) {
	if err := s.checkCard(ctx, boardID, cardID, requesterID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.AssignedTo != nil {
		updates[fieldAssignedTo] = *req.AssignedTo
	}
	if req.Label != nil {
		updates[fieldLabel] = *req.Label
	}
	if req.ColumnID != nil {
		updates[fieldColumnID] = *req.ColumnID
	}
	if req.Sequence != nil {
		updates[fieldSequence] = *req.Sequence
	}
	if len(updates) > 0 {
		if err := s.cards.Update(ctx, cardID, updates); err != nil {
			return nil, err
		}
	}
	return s.cards.Get(ctx, cardID)
}

func (s *service) DeleteCard(ctx context.Context, boardID, cardID, requesterID string) error {
	if err := s.checkCard(ctx, boardID, cardID, requesterID); err != nil {
		return err
	}
	return s.cards.Delete(ctx, cardID)
}

func (s *service) checkColumn(ctx context.Context, boardID, columnID, requesterID string) error {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return err
	}
	c, err := s.columns.Get(ctx, columnID)
	if err != nil {
		return err
	}
	if c.BoardID != boardID {
		return fmt.Errorf("column does not belong to board: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *service) checkCard(ctx context.Context, boardID, cardID, requesterID string) error {
	if _, err := s.Get(ctx, boardID, requesterID); err != nil {
		return err
	}
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return err
	}
	if c.BoardID != boardID {
		return fmt.Errorf("card does not belong to board: %w", domain.ErrNotFound)
	}
	return nil
}

func hasAccess(b *domain.Board, userID string) bool {
	uid := Canonical(userID)
	return Canonical(b.CreatedBy) == uid || containsCanonical(b.Users, uid)
}

func containsCanonical(users []string, uid string) bool {
	for _, u := range users {
		if Canonical(u) == uid {
			return true
		}
	}
	return false
}
