package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/go-kanban-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockBoardStore struct{ mock.Mock }

func (m *mockBoardStore) Put(ctx context.Context, b *domain.Board) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBoardStore) Get(ctx context.Context, boardID string) (*domain.Board, error) {
	args := m.Called(ctx, boardID)
	if b, _ := args.Get(0).(*domain.Board); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBoardStore) ListByOwner(ctx context.Context, userID string) ([]domain.Board, error) {
	args := m.Called(ctx, userID)
	if bs, _ := args.Get(0).([]domain.Board); bs != nil {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBoardStore) ListByMember(ctx context.Context, userID string) ([]domain.Board, error) {
	args := m.Called(ctx, userID)
	if bs, _ := args.Get(0).([]domain.Board); bs != nil {
		return bs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBoardStore) AddMember(ctx context.Context, boardID, userID string) (bool, error) {
	args := m.Called(ctx, boardID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *mockBoardStore) Update(ctx context.Context, boardID string, updates map[string]interface{}) error {
	return m.Called(ctx, boardID, updates).Error(0)
}
func (m *mockBoardStore) Delete(ctx context.Context, boardID string) error {
	return m.Called(ctx, boardID).Error(0)
}

type mockColumnStore struct{ mock.Mock }

func (m *mockColumnStore) Put(ctx context.Context, c *domain.Column) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockColumnStore) Get(ctx context.Context, columnID string) (*domain.Column, error) {
	args := m.Called(ctx, columnID)
	if c, _ := args.Get(0).(*domain.Column); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockColumnStore) ListByBoard(ctx context.Context, boardID string) ([]domain.Column, error) {
	args := m.Called(ctx, boardID)
	if cs, _ := args.Get(0).([]domain.Column); cs != nil {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockColumnStore) Update(ctx context.Context, columnID string, updates map[string]interface{}) error {
	return m.Called(ctx, columnID, updates).Error(0)
}
func (m *mockColumnStore) Delete(ctx context.Context, columnID string) error {
	return m.Called(ctx, columnID).Error(0)
}
func (m *mockColumnStore) DeleteByBoard(ctx context.Context, boardID string) (int, error) {
	args := m.Called(ctx, boardID)
	return args.Int(0), args.Error(1)
}

type mockCardStore struct{ mock.Mock }

func (m *mockCardStore) Put(ctx context.Context, c *domain.Card) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCardStore) Get(ctx context.Context, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	if c, _ := args.Get(0).(*domain.Card); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCardStore) ListByBoard(ctx context.Context, boardID string) ([]domain.Card, error) {
	args := m.Called(ctx, boardID)
	if cs, _ := args.Get(0).([]domain.Card); cs != nil {
		return cs, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCardStore) Update(ctx context.Context, cardID string, updates map[string]interface{}) error {
	return m.Called(ctx, cardID, updates).Error(0)
}
func (m *mockCardStore) Delete(ctx context.Context, cardID string) error {
	return m.Called(ctx, cardID).Error(0)
}
func (m *mockCardStore) DeleteByBoard(ctx context.Context, boardID string) (int, error) {
	args := m.Called(ctx, boardID)
	return args.Int(0), args.Error(1)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(bs *mockBoardStore, cols *mockColumnStore, cards *mockCardStore) Service {
	return NewService(ServiceDeps{
		BoardRepo:   bs,
		ColumnRepo:  cols,
		CardRepo:    cards,
		ObjectStore: &mockObjectStore{},
	})
}

func boardFixture() *domain.Board {
	return &domain.Board{
		BoardID:   "b1",
		Name:      "Roadmap",
		CreatedBy: "u1",
		Users:     []string{"u2"},
	}
}

// --- AddMember tests ---

func TestAddMember_NewUser(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)
	bs.On("AddMember", mock.Anything, "b1", "u3").Return(true, nil)

	svc := newService(bs, nil, nil)
	require.NoError(t, svc.AddMember(context.Background(), "b1", "u3"))
	bs.AssertExpectations(t)
}

func TestAddMember_AlreadyMember_NoWrite(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	require.NoError(t, svc.AddMember(context.Background(), "b1", "u2"))
	bs.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_Owner_NoWrite(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	require.NoError(t, svc.AddMember(context.Background(), "b1", "u1"))
	bs.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_LostRace_StillSucceeds(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)
	bs.On("AddMember", mock.Anything, "b1", "u3").Return(false, nil)

	svc := newService(bs, nil, nil)
	require.NoError(t, svc.AddMember(context.Background(), "b1", "u3"))
}

func TestAddMember_WhitespaceID_Canonicalised(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	// "  u2 " canonicalises to an existing member.
	require.NoError(t, svc.AddMember(context.Background(), "b1", "  u2 "))
	bs.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMember_EmptyID(t *testing.T) {
	svc := newService(&mockBoardStore{}, nil, nil)
	err := svc.AddMember(context.Background(), "b1", "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- ListShared tests ---

func TestListShared_ExcludesOwnedBoards(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("ListByMember", mock.Anything, "u1").Return([]domain.Board{
		{BoardID: "b1", CreatedBy: "u1", Users: []string{"u1"}},
		{BoardID: "b2", CreatedBy: "u9", Users: []string{"u1", "u5"}},
	}, nil)

	svc := newService(bs, nil, nil)
	shared, err := svc.ListShared(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "b2", shared[0].BoardID)
}

func TestListShared_FalseScanHit_Excluded(t *testing.T) {
	bs := &mockBoardStore{}
	// The membership scan can over-match; the service re-checks the
	// canonical list.
	bs.On("ListByMember", mock.Anything, "u1").Return([]domain.Board{
		{BoardID: "b3", CreatedBy: "u9", Users: []string{"u10", "u11"}},
	}, nil)

	svc := newService(bs, nil, nil)
	shared, err := svc.ListShared(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, shared)
}

// --- Create tests ---

func TestCreate_DuplicateID(t *testing.T) {
	bs := &mockBoardStore{}
	// The store's conditional put is the only uniqueness check; a taken
	// id surfaces as a conflict, never as a replaced document.
	bs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Board")).
		Return(fmt.Errorf("board id already in use: %w", domain.ErrConflict))

	svc := newService(bs, nil, nil)
	_, err := svc.Create(context.Background(), "u1", domain.CreateBoardRequest{BoardID: "b1", Name: "Roadmap"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	bs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCreate_HappyPath(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Board")).Return(nil)

	svc := newService(bs, nil, nil)
	b, err := svc.Create(context.Background(), "u1", domain.CreateBoardRequest{BoardID: "b1", Name: "Roadmap"})
	require.NoError(t, err)
	assert.Equal(t, "u1", b.CreatedBy)
	assert.Empty(t, b.Users)
	bs.AssertExpectations(t)
}

// --- Delete tests ---

func TestDelete_NotOwner(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	_, _, err := svc.Delete(context.Background(), "b1", "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_CascadesColumnsAndCards(t *testing.T) {
	bs := &mockBoardStore{}
	cols := &mockColumnStore{}
	cards := &mockCardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)
	cards.On("DeleteByBoard", mock.Anything, "b1").Return(5, nil)
	cols.On("DeleteByBoard", mock.Anything, "b1").Return(3, nil)
	bs.On("Delete", mock.Anything, "b1").Return(nil)

	svc := newService(bs, cols, cards)
	deletedColumns, deletedCards, err := svc.Delete(context.Background(), "b1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, deletedColumns)
	assert.Equal(t, 5, deletedCards)
	bs.AssertExpectations(t)
}

// --- access tests ---

func TestGet_NoAccess(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	_, err := svc.Get(context.Background(), "b1", "u9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestIsMember_OwnerIsImplicitMember(t *testing.T) {
	bs := &mockBoardStore{}
	bs.On("Get", mock.Anything, "b1").Return(boardFixture(), nil)

	svc := newService(bs, nil, nil)
	ok, err := svc.IsMember(context.Background(), "b1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}
