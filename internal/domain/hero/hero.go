package hero

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

// Section is the hero block at the top of a public page (one row per page).
type Section struct {
	ID              uuid.UUID  `json:"id"`
	Page            string     `json:"page"`
	Headline        string     `json:"headline"`
	Subheadline     string     `json:"subheadline"`
	CTALabel        *string    `json:"cta_label"`
	CTAURL          *string    `json:"cta_url"`
	MediaURL        *string    `json:"media_url"`
	MediaType       media.Kind `json:"media_type"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (s *Section) Media() media.Reference {
	return media.Reference{DirectURL: s.MediaURL, ExternalAssetID: s.ExternalAssetID}
}

// SetDirectMedia points the hero at an uploaded file and clears any
// external asset so only one side of the reference is set.
func (s *Section) SetDirectMedia(url string, kind media.Kind) {
	s.MediaURL = &url
	s.MediaType = kind
	s.ExternalAssetID = nil
}

func (s *Section) SetExternalMedia(assetID uuid.UUID, kind media.Kind) {
	s.ExternalAssetID = &assetID
	s.MediaType = kind
	s.MediaURL = nil
}

var (
	pageKeyRegex   = regexp.MustCompile(`^[a-z0-9-]+$`)
	ErrInvalidPage = errors.New("page key only includes lowercase letters, digits and -")
)

func ValidatePage(page string) error {
	if !pageKeyRegex.MatchString(page) {
		return ErrInvalidPage
	}
	return nil
}

type Repository interface {
	// FindByPage returns a not-found AppError when the page has no hero yet.
	FindByPage(ctx context.Context, page string) (*Section, error)
	Upsert(ctx context.Context, s *Section) error
}
