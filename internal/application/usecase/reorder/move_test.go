package reorder

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type OrderingRepoMock struct {
	mock.Mock
}

func (m *OrderingRepoMock) ListItems(ctx context.Context, scope ordering.Scope) ([]ordering.Item, error) {
	args := m.Called(ctx, scope)
	if v := args.Get(0); v != nil {
		return v.([]ordering.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderingRepoMock) ParentOf(ctx context.Context, table ordering.Table, id uuid.UUID) (*uuid.UUID, error) {
	args := m.Called(ctx, table, id)
	if v := args.Get(0); v != nil {
		return v.(*uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderingRepoMock) SetDisplayOrder(ctx context.Context, table ordering.Table, w ordering.Write) error {
	return m.Called(ctx, table, w).Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, path string) ([]byte, bool) {
	args := m.Called(ctx, path)
	return nil, args.Bool(1)
}

func (m *CacheMock) Set(ctx context.Context, path string, body []byte) error {
	return m.Called(ctx, path, body).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func threeItems() []ordering.Item {
	return []ordering.Item{
		{ID: uuid.New(), DisplayOrder: 0},
		{ID: uuid.New(), DisplayOrder: 1},
		{ID: uuid.New(), DisplayOrder: 2},
	}
}

func newMove(repo *OrderingRepoMock, cache *CacheMock) *MoveUseCase {
	return NewMoveUseCase(repo, site.NewRevalidateUseCase(cache, logger.NewNop()), logger.NewNop())
}

func TestMove_TopItemUpIsNoop(t *testing.T) {
	repo := new(OrderingRepoMock)
	cache := new(CacheMock)
	uc := newMove(repo, cache)
	items := threeItems()

	repo.On("ParentOf", mock.Anything, ordering.TableEvents, items[0].ID).Return(nil, nil).Once()
	repo.On("ListItems", mock.Anything, ordering.Scope{Table: ordering.TableEvents}).Return(items, nil).Once()

	out, err := uc.Execute(context.Background(), MoveInput{Table: ordering.TableEvents, ID: items[0].ID, Direction: "up"})
	require.NoError(t, err)
	assert.False(t, out.Moved)
	repo.AssertNotCalled(t, "SetDisplayOrder", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestMove_BottomItemDownIsNoop(t *testing.T) {
	repo := new(OrderingRepoMock)
	uc := newMove(repo, new(CacheMock))
	items := threeItems()

	repo.On("ParentOf", mock.Anything, ordering.TableProducts, items[2].ID).Return(nil, nil).Once()
	repo.On("ListItems", mock.Anything, ordering.Scope{Table: ordering.TableProducts}).Return(items, nil).Once()

	out, err := uc.Execute(context.Background(), MoveInput{Table: ordering.TableProducts, ID: items[2].ID, Direction: "down"})
	require.NoError(t, err)
	assert.False(t, out.Moved)
	repo.AssertNotCalled(t, "SetDisplayOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestMove_SwapsWithinParentScope(t *testing.T) {
	repo := new(OrderingRepoMock)
	cache := new(CacheMock)
	uc := newMove(repo, cache)
	items := threeItems()
	galleryID := uuid.New()

	repo.On("ParentOf", mock.Anything, ordering.TableGalleryMedia, items[1].ID).Return(&galleryID, nil).Once()
	repo.On("ListItems", mock.Anything, ordering.Scope{Table: ordering.TableGalleryMedia, ParentID: &galleryID}).Return(items, nil).Once()
	repo.On("SetDisplayOrder", mock.Anything, ordering.TableGalleryMedia, ordering.Write{ID: items[1].ID, DisplayOrder: 0}).Return(nil).Once()
	repo.On("SetDisplayOrder", mock.Anything, ordering.TableGalleryMedia, ordering.Write{ID: items[0].ID, DisplayOrder: 1}).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, []string{site.PathMedia}).Return(nil).Once()

	out, err := uc.Execute(context.Background(), MoveInput{Table: ordering.TableGalleryMedia, ID: items[1].ID, Direction: "up"})
	require.NoError(t, err)
	assert.True(t, out.Moved)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestMove_InvalidInput(t *testing.T) {
	repo := new(OrderingRepoMock)
	uc := newMove(repo, new(CacheMock))

	_, err := uc.Execute(context.Background(), MoveInput{Table: "users", ID: uuid.New(), Direction: "up"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), MoveInput{Table: ordering.TableEvents, ID: uuid.New(), Direction: "sideways"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	repo.AssertNotCalled(t, "ParentOf", mock.Anything, mock.Anything, mock.Anything)
}

func TestMove_UnknownItem(t *testing.T) {
	repo := new(OrderingRepoMock)
	uc := newMove(repo, new(CacheMock))
	id := uuid.New()

	repo.On("ParentOf", mock.Anything, ordering.TableEvents, id).Return(nil, nil).Once()
	repo.On("ListItems", mock.Anything, ordering.Scope{Table: ordering.TableEvents}).Return(threeItems(), nil).Once()

	_, err := uc.Execute(context.Background(), MoveInput{Table: ordering.TableEvents, ID: id, Direction: "down"})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
