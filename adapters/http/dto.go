package http

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/application/service"
	mediaUC "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

// Asset DTOs

type CreateAssetsRequest struct {
	Assets []mediaUC.AssetInput `json:"assets"`
}

type UploadcareRequest struct {
	Files []mediaUC.UploadcareFile `json:"files"`
}

type DriveFolderRequest struct {
	Folder string `json:"folder"`
}

type DriveCheckRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

// Content DTOs

type SaveHeroRequest struct {
	Headline        string  `json:"headline"`
	Subheadline     string  `json:"subheadline"`
	CTALabel        *string `json:"cta_label"`
	CTAURL          *string `json:"cta_url"`
	MediaURL        *string `json:"media_url"`
	ExternalAssetID *string `json:"external_asset_id"`
	MediaType       string  `json:"media_type"`
}

type SaveEventRequest struct {
	ID              *string `json:"id"`
	Title           string  `json:"title"`
	Venue           string  `json:"venue"`
	City            string  `json:"city"`
	Country         string  `json:"country"`
	StartsAt        string  `json:"starts_at"`
	TicketURL       *string `json:"ticket_url"`
	Description     string  `json:"description"`
	ImageURL        *string `json:"image_url"`
	ExternalAssetID *string `json:"external_asset_id"`
	IsPublished     bool    `json:"is_published"`
}

type IDRequest struct {
	ID string `json:"id" binding:"required"`
}

type SaveGalleryRequest struct {
	ID          *string `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	IsPublished bool    `json:"is_published"`
}

type AddGalleryItemRequest struct {
	MediaURL        *string `json:"media_url"`
	ExternalAssetID *string `json:"external_asset_id"`
	MediaType       string  `json:"media_type"`
	Caption         string  `json:"caption"`
}

type ProductRequest struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	StripePriceID string `json:"stripe_price_id"`
	IsActive      bool   `json:"is_active"`
}

type ProfileRequest struct {
	Bio          string  `json:"bio"`
	PressBio     string  `json:"press_bio"`
	ContactEmail *string `json:"contact_email"`
}

type TimelineRequest struct {
	Year            string  `json:"year"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ImageURL        *string `json:"image_url"`
	ExternalAssetID *string `json:"external_asset_id"`
}

type MoveRequest struct {
	Direction string `json:"direction"`
}

// Public DTOs

type BookingRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	EventDate *string `json:"event_date"`
	Venue     *string `json:"venue"`
	City      *string `json:"city"`
	Budget    *string `json:"budget"`
	Message   string  `json:"message"`
}

type CheckoutRequest struct {
	Items []service.CheckoutLine `json:"items"`
}

type RevalidateRequest struct {
	Paths []string `json:"paths"`
}

// Helpers

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidInput("invalid "+name, err)
	}
	return id, nil
}

// optionalUUID treats nil and blank strings as unset.
func optionalUUID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, apperror.NewInvalidInput(field+" is not a valid id", err)
	}
	return &id, nil
}

// blankToNil drops empty optional strings so they are stored as NULL.
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

var eventTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseEventTime accepts RFC 3339 and the datetime-local form value.
func parseEventTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.NewInvalidInput(field+" must be a date or date-time", nil)
}
