package media

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/media"
)

type AssetRepoMock struct {
	mock.Mock
}

func (m *AssetRepoMock) SaveBatch(ctx context.Context, assets []*media.ExternalAsset) error {
	args := m.Called(ctx, assets)
	return args.Error(0)
}

func (m *AssetRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*media.ExternalAsset, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*media.ExternalAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AssetRepoMock) List(ctx context.Context, provider media.Provider, limit, offset int) ([]*media.ExternalAsset, error) {
	args := m.Called(ctx, provider, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*media.ExternalAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, eventType string, key string, payload any) {
	m.Called(ctx, eventType, key, payload)
}

type DriveMock struct {
	mock.Mock
}

func (m *DriveMock) ListFolder(ctx context.Context, folderID string) ([]service.DriveFile, error) {
	args := m.Called(ctx, folderID)
	if v := args.Get(0); v != nil {
		return v.([]service.DriveFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DriveMock) CheckAccess(ctx context.Context, fileID string) bool {
	return m.Called(ctx, fileID).Bool(0)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	args := m.Called(ctx, file, folder, publicID)
	return args.String(0), args.Error(1)
}

func (m *UploaderMock) Delete(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}
