package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	ProviderGoogleDrive Provider = "google_drive"
	ProviderUploadcare  Provider = "uploadcare"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogleDrive, ProviderUploadcare:
		return true
	}
	return false
}

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindOf maps a MIME type to a media kind. Anything that is not video/*,
// including an unknown type, is treated as an image.
func KindOf(mimeType string) Kind {
	if strings.HasPrefix(strings.ToLower(mimeType), "video/") {
		return KindVideo
	}
	return KindImage
}

// ParseKind accepts the media_type column values; empty means image.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, "":
		return KindImage, nil
	case KindVideo:
		return KindVideo, nil
	}
	return "", ErrInvalidKind
}

// ExternalAsset is a file hosted by a third-party provider rather than the
// site's own object storage. Rows are written once and never mutated apart
// from updated_at.
type ExternalAsset struct {
	ID             uuid.UUID `json:"id"`
	Provider       Provider  `json:"provider"`
	FileID         string    `json:"file_id"`
	MimeType       *string   `json:"mime_type"`
	ThumbnailURL   *string   `json:"thumbnail_url"`
	PreviewURL     *string   `json:"preview_url"`
	SizeBytes      *int64    `json:"size_bytes"`
	Name           *string   `json:"name"`
	WebViewLink    *string   `json:"web_view_link"`
	SourceFolderID *string   `json:"source_folder_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (a *ExternalAsset) Kind() Kind {
	if a.MimeType == nil {
		return KindImage
	}
	return KindOf(*a.MimeType)
}

func (a *ExternalAsset) Validate() error {
	if !a.Provider.Valid() {
		return ErrInvalidProvider
	}
	if strings.TrimSpace(a.FileID) == "" {
		return ErrMissingFileID
	}
	return nil
}

// Reference is the (direct_url, external_asset_id) pair embedded in content
// rows. At most one side is meaningfully set; both nil means unset.
type Reference struct {
	DirectURL       *string    `json:"direct_url"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
}

func (r Reference) IsUnset() bool {
	return r.directURL() == "" && r.ExternalAssetID == nil
}

func (r Reference) directURL() string {
	if r.DirectURL == nil {
		return ""
	}
	return strings.TrimSpace(*r.DirectURL)
}

// Resolved is a concrete, displayable URL. Never persisted.
type Resolved struct {
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	IsExternal   bool    `json:"is_external"`
	MimeType     *string `json:"mime_type,omitempty"`
}

var (
	ErrInvalidProvider  = errors.New("provider must be google_drive or uploadcare")
	ErrMissingFileID    = errors.New("file_id is required")
	ErrInvalidKind      = errors.New("media_type must be image or video")
	ErrAssetNotFound    = errors.New("external media asset not found")
	ErrInvalidFolderURL = errors.New("invalid Google Drive folder URL")
)

type Repository interface {
	// SaveBatch inserts all assets in a single statement.
	SaveBatch(ctx context.Context, assets []*ExternalAsset) error
	FindByID(ctx context.Context, id uuid.UUID) (*ExternalAsset, error)
	List(ctx context.Context, provider Provider, limit, offset int) ([]*ExternalAsset, error)
}
