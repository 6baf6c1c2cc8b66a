package about

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

// Profile is the single about/press-kit text block.
type Profile struct {
	Bio          string    `json:"bio"`
	PressBio     string    `json:"press_bio"`
	PhotoURL     *string   `json:"photo_url"`
	ContactEmail *string   `json:"contact_email"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TimelineEntry struct {
	ID              uuid.UUID  `json:"id"`
	Year            string     `json:"year"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ImageURL        *string    `json:"image_url"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
	DisplayOrder    int        `json:"display_order"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *TimelineEntry) Media() media.Reference {
	return media.Reference{DirectURL: e.ImageURL, ExternalAssetID: e.ExternalAssetID}
}

var ErrMissingTitle = errors.New("title is required")

func (e *TimelineEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

type Repository interface {
	// GetProfile returns an empty profile when none was saved yet.
	GetProfile(ctx context.Context) (*Profile, error)
	UpsertProfile(ctx context.Context, p *Profile) error

	SaveEntry(ctx context.Context, e *TimelineEntry) error
	UpdateEntry(ctx context.Context, e *TimelineEntry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	FindEntry(ctx context.Context, id uuid.UUID) (*TimelineEntry, error)
	ListEntries(ctx context.Context) ([]*TimelineEntry, error)
}
