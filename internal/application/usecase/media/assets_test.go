package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

func TestUploadcareBatch_OneRowPerFile(t *testing.T) {
	repo := new(AssetRepoMock)
	pub := new(PublisherMock)
	uc := NewCreateAssetsUseCase(repo, pub, logger.NewNop())

	size := int64(2048)
	files := []UploadcareFile{
		{UUID: "uuid-1", CDNURL: "https://ucarecdn.com/uuid-1/", MimeType: "image/jpeg", Size: &size},
		{UUID: "uuid-2", CDNURL: "https://ucarecdn.com/uuid-2/", MimeType: "video/mp4"},
		{UUID: "uuid-3", CDNURL: "https://ucarecdn.com/uuid-3/", MimeType: "image/png"},
	}

	var saved []*media.ExternalAsset
	repo.On("SaveBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*media.ExternalAsset)
	}).Return(nil).Once()
	pub.On("Publish", mock.Anything, service.EventAssetsImported, "uploadcare", mock.Anything).Once()

	out, err := uc.Execute(context.Background(), UploadcareInputs(files))
	require.NoError(t, err)
	require.Len(t, out.Assets, len(files))
	require.Len(t, saved, len(files))

	for i, a := range saved {
		assert.Equal(t, media.ProviderUploadcare, a.Provider)
		assert.Equal(t, files[i].UUID, a.FileID)
		assert.Equal(t, files[i].CDNURL, *a.PreviewURL)
	}
	assert.Equal(t, "https://ucarecdn.com/uuid-1/", *saved[0].ThumbnailURL)
	assert.Nil(t, saved[1].ThumbnailURL)
	assert.Equal(t, size, *saved[0].SizeBytes)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestCreateAssets_RejectsWholeBatchOnInvalidEntry(t *testing.T) {
	repo := new(AssetRepoMock)
	uc := NewCreateAssetsUseCase(repo, new(PublisherMock), logger.NewNop())

	_, err := uc.Execute(context.Background(), []AssetInput{
		{Provider: media.ProviderGoogleDrive, FileID: "ok"},
		{Provider: media.ProviderGoogleDrive, FileID: "  "},
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), []AssetInput{{Provider: "dropbox", FileID: "x"}})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), nil)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}
