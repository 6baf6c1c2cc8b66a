package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveSource_DriveVideo(t *testing.T) {
	for _, mime := range []string{"video/mp4", "video/quicktime", "video/webm"} {
		got := ResolveSource(DriveSource{FileID: "abc_123", MimeType: strPtr(mime)})
		require.NotNil(t, got)
		assert.Equal(t, "https://drive.google.com/file/d/abc_123/preview", got.URL)
		assert.True(t, got.IsExternal)
	}
}

func TestResolveSource_DriveImage(t *testing.T) {
	cases := []*string{strPtr("image/jpeg"), strPtr("image/png"), nil}
	for _, mime := range cases {
		got := ResolveSource(DriveSource{FileID: "abc_123", MimeType: mime})
		require.NotNil(t, got)
		assert.Equal(t, "https://drive.google.com/uc?export=view&id=abc_123", got.URL)
	}
}

func TestResolveSource_DriveThumbnail(t *testing.T) {
	stored := ResolveSource(DriveSource{FileID: "f1", ThumbnailURL: strPtr("https://lh3/thumb")})
	require.NotNil(t, stored.ThumbnailURL)
	assert.Equal(t, "https://lh3/thumb", *stored.ThumbnailURL)

	templated := ResolveSource(DriveSource{FileID: "f1"})
	require.NotNil(t, templated.ThumbnailURL)
	assert.Equal(t, DriveThumbnailURL("f1"), *templated.ThumbnailURL)
}

func TestResolveSource_Direct(t *testing.T) {
	got := ResolveSource(DirectSource{URL: "https://res.cloudinary.com/x/hero.jpg"})
	require.NotNil(t, got)
	assert.Equal(t, "https://res.cloudinary.com/x/hero.jpg", got.URL)
	assert.False(t, got.IsExternal)

	assert.Nil(t, ResolveSource(DirectSource{URL: "  "}))
	assert.Nil(t, ResolveSource(nil))
}

func TestResolveSource_Uploadcare(t *testing.T) {
	got := ResolveSource(UploadcareSource{PreviewURL: strPtr("https://ucarecdn.com/u1/")})
	require.NotNil(t, got)
	assert.Equal(t, "https://ucarecdn.com/u1/", got.URL)

	assert.Nil(t, ResolveSource(UploadcareSource{}))
}

func TestSourceOf(t *testing.T) {
	id := uuid.New()
	assert.IsType(t, DriveSource{}, SourceOf(&ExternalAsset{ID: id, Provider: ProviderGoogleDrive, FileID: "f"}))
	assert.IsType(t, UploadcareSource{}, SourceOf(&ExternalAsset{ID: id, Provider: ProviderUploadcare, FileID: "u"}))
	assert.Nil(t, SourceOf(&ExternalAsset{ID: id, Provider: "dropbox"}))
}

func TestParseDriveFolderID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"folders path", "https://drive.google.com/drive/folders/ABC123xyz", "ABC123xyz"},
		{"user folders path", "https://drive.google.com/drive/u/1/folders/1aB-cD_eF?usp=sharing", "1aB-cD_eF"},
		{"bare id", "1AbCdEfGhIjKlMnOpQrStU", "1AbCdEfGhIjKlMnOpQrStU"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDriveFolderID(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			again, err := ParseDriveFolderID(got)
			if len(got) >= 20 {
				require.NoError(t, err)
				assert.Equal(t, got, again)
			}
		})
	}

	for _, bad := range []string{"https://drive.google.com/file/d/abc", "short-id", "", "https://example.com/x y"} {
		_, err := ParseDriveFolderID(bad)
		assert.ErrorIs(t, err, ErrInvalidFolderURL, bad)
	}
}

func TestDriveURLHelpers(t *testing.T) {
	assert.True(t, IsDriveURL(DriveVideoURL("f")))
	assert.False(t, IsDriveURL("https://res.cloudinary.com/demo/image.jpg"))

	id, ok := DriveFileIDFromURL(DriveVideoURL("vid1"))
	assert.True(t, ok)
	assert.Equal(t, "vid1", id)

	id, ok = DriveFileIDFromURL(DriveImageURL("img1"))
	assert.True(t, ok)
	assert.Equal(t, "img1", id)

	_, ok = DriveFileIDFromURL("https://example.com/file/d/x")
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindVideo, KindOf("video/mp4"))
	assert.Equal(t, KindVideo, KindOf("VIDEO/webm"))
	assert.Equal(t, KindImage, KindOf("image/png"))
	assert.Equal(t, KindImage, KindOf(""))
}

func TestReferenceIsUnset(t *testing.T) {
	assert.True(t, Reference{}.IsUnset())
	assert.True(t, Reference{DirectURL: strPtr(" ")}.IsUnset())
	assert.False(t, Reference{DirectURL: strPtr("https://x")}.IsUnset())
	id := uuid.New()
	assert.False(t, Reference{ExternalAssetID: &id}.IsUnset())
}
