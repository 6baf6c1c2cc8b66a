package gallery

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

type Gallery struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
	IsPublished  bool      `json:"is_published"`
	Items        []Item    `json:"items"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item is one row of gallery_media.
type Item struct {
	ID              uuid.UUID  `json:"id"`
	GalleryID       uuid.UUID  `json:"gallery_id"`
	MediaURL        *string    `json:"media_url"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
	MediaType       media.Kind `json:"media_type"`
	Caption         string     `json:"caption"`
	DisplayOrder    int        `json:"display_order"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (i *Item) Media() media.Reference {
	return media.Reference{DirectURL: i.MediaURL, ExternalAssetID: i.ExternalAssetID}
}

var (
	slugRegex      = regexp.MustCompile(`^[a-z0-9-]+$`)
	ErrInvalidSlug = errors.New("slug only allows lowercase letters, numbers, and hyphens")
	ErrEmptyMedia  = errors.New("a gallery item needs a media_url or an external_asset_id")
)

func (g *Gallery) Validate() error {
	if !slugRegex.MatchString(g.Slug) {
		return ErrInvalidSlug
	}
	return nil
}

func (i *Item) Validate() error {
	if i.Media().IsUnset() {
		return ErrEmptyMedia
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, g *Gallery) error
	Update(ctx context.Context, g *Gallery) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Gallery, error)
	FindBySlug(ctx context.Context, slug string) (*Gallery, error)
	// List returns galleries ordered by display_order with their items loaded.
	List(ctx context.Context, publishedOnly bool) ([]*Gallery, error)

	SaveItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, galleryID uuid.UUID) ([]Item, error)
}
