package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, path string) ([]byte, bool) { return nil, false }

func (m *CacheMock) Set(ctx context.Context, path string, body []byte) error { return nil }

func (m *CacheMock) Invalidate(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func TestRevalidate_DefaultsToAllPublicPages(t *testing.T) {
	cache := new(CacheMock)
	uc := NewRevalidateUseCase(cache, logger.NewNop())
	cache.On("Invalidate", mock.Anything, PublicPaths).Return(nil).Once()

	require.NoError(t, uc.Execute(context.Background(), nil))
	cache.AssertExpectations(t)
}

func TestRevalidate_RejectsRelativePaths(t *testing.T) {
	cache := new(CacheMock)
	uc := NewRevalidateUseCase(cache, logger.NewNop())

	err := uc.Execute(context.Background(), []string{"events"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestRevalidate_AfterSwallowsCacheErrors(t *testing.T) {
	cache := new(CacheMock)
	uc := NewRevalidateUseCase(cache, logger.NewNop())
	cache.On("Invalidate", mock.Anything, []string{PathShop}).Return(errors.New("redis down")).Twice()

	assert.NotPanics(t, func() { uc.After(context.Background(), PathShop) })
	require.ErrorIs(t, uc.Execute(context.Background(), []string{PathShop}), apperror.ErrUpstream)
}

func TestRevalidate_NilCacheIsNoop(t *testing.T) {
	uc := NewRevalidateUseCase(nil, logger.NewNop())
	require.NoError(t, uc.Execute(context.Background(), []string{PathHome}))
}

func TestHeroPath(t *testing.T) {
	assert.Equal(t, "/", HeroPath("home"))
	assert.Equal(t, "/events", HeroPath("events"))
}
