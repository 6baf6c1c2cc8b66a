package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

// Event is a show listed on the events page.
type Event struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Venue           string     `json:"venue"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	StartsAt        time.Time  `json:"starts_at"`
	TicketURL       *string    `json:"ticket_url"`
	Description     string     `json:"description"`
	ImageURL        *string    `json:"image_url"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
	DisplayOrder    int        `json:"display_order"`
	IsPublished     bool       `json:"is_published"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *Event) Media() media.Reference {
	return media.Reference{DirectURL: e.ImageURL, ExternalAssetID: e.ExternalAssetID}
}

var (
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingStartsAt = errors.New("starts_at is required")
	ErrEventNotFound   = errors.New("event not found")
)

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	if e.StartsAt.IsZero() {
		return ErrMissingStartsAt
	}
	return nil
}

type ListFilter struct {
	PublishedOnly bool
	// From drops events starting before this instant when non-zero.
	From  time.Time
	Limit int
}

type Repository interface {
	Save(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, f ListFilter) ([]*Event, error)
}
