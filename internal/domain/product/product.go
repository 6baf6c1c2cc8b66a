package product

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/media"
)

type Product struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"price_cents"`
	Currency      string    `json:"currency"`
	StripePriceID string    `json:"stripe_price_id"`
	IsActive      bool      `json:"is_active"`
	DisplayOrder  int       `json:"display_order"`
	Images        []Image   `json:"images"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Image struct {
	ID              uuid.UUID  `json:"id"`
	ProductID       uuid.UUID  `json:"product_id"`
	ImageURL        *string    `json:"image_url"`
	ExternalAssetID *uuid.UUID `json:"external_asset_id"`
	Alt             string     `json:"alt"`
	DisplayOrder    int        `json:"display_order"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (i *Image) Media() media.Reference {
	return media.Reference{DirectURL: i.ImageURL, ExternalAssetID: i.ExternalAssetID}
}

var (
	slugRegex          = regexp.MustCompile(`^[a-z0-9-]+$`)
	ErrInvalidSlug     = errors.New("slug only allows lowercase letters, numbers, and hyphens")
	ErrMissingName     = errors.New("name is required")
	ErrNegativePrice   = errors.New("price_cents must not be negative")
	ErrMissingPriceID  = errors.New("stripe_price_id is required for an active product")
	ErrProductNotFound = errors.New("product not found")
)

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if !slugRegex.MatchString(p.Slug) {
		return ErrInvalidSlug
	}
	if p.PriceCents < 0 {
		return ErrNegativePrice
	}
	if p.IsActive && strings.TrimSpace(p.StripePriceID) == "" {
		return ErrMissingPriceID
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// List returns products ordered by display_order with images loaded.
	List(ctx context.Context, activeOnly bool) ([]*Product, error)

	SaveImage(ctx context.Context, img *Image) error
	DeleteImage(ctx context.Context, id uuid.UUID) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]Image, error)
}
