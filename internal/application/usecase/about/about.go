package about

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	mediauc "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/about"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("about_usecase")

var aboutPages = []string{site.PathAbout, site.PathPressKit}

type AboutUseCase struct {
	repo      about.Repository
	orderRepo ordering.Repository
	uploads   *mediauc.UploadMediaUseCase
	revalid   *site.RevalidateUseCase
	logger    logger.Logger
}

func NewAboutUseCase(r about.Repository, o ordering.Repository, u *mediauc.UploadMediaUseCase, rv *site.RevalidateUseCase, log logger.Logger) *AboutUseCase {
	return &AboutUseCase{repo: r, orderRepo: o, uploads: u, revalid: rv, logger: log}
}

func (uc *AboutUseCase) GetProfile(ctx context.Context) (*about.Profile, error) {
	return uc.repo.GetProfile(ctx)
}

type ProfileInput struct {
	Bio          string
	PressBio     string
	ContactEmail *string
}

// SaveProfile updates the texts and keeps the current photo.
func (uc *AboutUseCase) SaveProfile(ctx context.Context, in ProfileInput) (*about.Profile, error) {
	p, err := uc.repo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	p.Bio = in.Bio
	p.PressBio = in.PressBio
	p.ContactEmail = in.ContactEmail
	if err := uc.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadPhoto stores a file under about-photos/ and sets it as the profile photo.
func (uc *AboutUseCase) UploadPhoto(ctx context.Context, file mediauc.UploadFile) (*about.Profile, error) {
	ctx, span := tracer.Start(ctx, "UploadAboutPhoto")
	defer span.End()

	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, apperror.NewInvalidInput("the about photo must be an image", nil)
	}
	p, err := uc.repo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	out, err := uc.uploads.Execute(ctx, file, mediauc.AboutPhotoPath)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p.PhotoURL = &out.URL
	if err := uc.saveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *AboutUseCase) saveProfile(ctx context.Context, p *about.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpsertProfile(ctx, p); err != nil {
		return err
	}
	uc.revalid.After(ctx, aboutPages...)
	return nil
}

func (uc *AboutUseCase) ListTimeline(ctx context.Context) ([]*about.TimelineEntry, error) {
	return uc.repo.ListEntries(ctx)
}

type TimelineInput struct {
	Year            string
	Title           string
	Description     string
	ImageURL        *string
	ExternalAssetID *uuid.UUID
}

func (in TimelineInput) apply(e *about.TimelineEntry) {
	e.Year = strings.TrimSpace(in.Year)
	e.Title = strings.TrimSpace(in.Title)
	e.Description = in.Description
	e.ImageURL = in.ImageURL
	e.ExternalAssetID = in.ExternalAssetID
}

func (uc *AboutUseCase) CreateEntry(ctx context.Context, in TimelineInput) (*about.TimelineEntry, error) {
	items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableTimeline})
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := &about.TimelineEntry{ID: uuid.New(), DisplayOrder: ordering.Next(items), CreatedAt: now, UpdatedAt: now}
	in.apply(e)
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.SaveEntry(ctx, e); err != nil {
		return nil, err
	}
	uc.revalid.After(ctx, aboutPages...)
	return e, nil
}

func (uc *AboutUseCase) UpdateEntry(ctx context.Context, id uuid.UUID, in TimelineInput) (*about.TimelineEntry, error) {
	e, err := uc.repo.FindEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(e)
	e.UpdatedAt = time.Now().UTC()
	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	uc.revalid.After(ctx, aboutPages...)
	return e, nil
}

func (uc *AboutUseCase) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}
	uc.revalid.After(ctx, aboutPages...)
	return nil
}
