package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	mediauc "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/gallery"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("gallery_usecase")

type GalleryUseCase struct {
	repo      gallery.Repository
	orderRepo ordering.Repository
	uploads   *mediauc.UploadMediaUseCase
	revalid   *site.RevalidateUseCase
	logger    logger.Logger
}

func NewGalleryUseCase(r gallery.Repository, o ordering.Repository, u *mediauc.UploadMediaUseCase, rv *site.RevalidateUseCase, log logger.Logger) *GalleryUseCase {
	return &GalleryUseCase{repo: r, orderRepo: o, uploads: u, revalid: rv, logger: log}
}

func (uc *GalleryUseCase) List(ctx context.Context, publishedOnly bool) ([]*gallery.Gallery, error) {
	return uc.repo.List(ctx, publishedOnly)
}

type SaveGalleryInput struct {
	ID          *uuid.UUID
	Slug        string
	Title       string
	Description string
	IsPublished bool
}

func (uc *GalleryUseCase) Save(ctx context.Context, in SaveGalleryInput) (*gallery.Gallery, error) {
	ctx, span := tracer.Start(ctx, "SaveGallery")
	defer span.End()

	now := time.Now().UTC()
	var g *gallery.Gallery
	if in.ID != nil {
		found, err := uc.repo.FindByID(ctx, *in.ID)
		if err != nil {
			return nil, err
		}
		g = found
	} else {
		items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableGalleries})
		if err != nil {
			return nil, err
		}
		g = &gallery.Gallery{ID: uuid.New(), DisplayOrder: ordering.Next(items), CreatedAt: now}
	}

	g.Slug = strings.TrimSpace(in.Slug)
	g.Title = in.Title
	g.Description = in.Description
	g.IsPublished = in.IsPublished
	g.UpdatedAt = now
	if err := g.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	var err error
	if in.ID != nil {
		err = uc.repo.Update(ctx, g)
	} else {
		err = uc.repo.Save(ctx, g)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.revalid.After(ctx, site.PathMedia)
	return g, nil
}

func (uc *GalleryUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.revalid.After(ctx, site.PathMedia)
	return nil
}

type AddItemInput struct {
	GalleryID       uuid.UUID
	MediaURL        *string
	ExternalAssetID *uuid.UUID
	MediaType       string
	Caption         string
}

// AddItem appends a gallery item that points at an existing URL or an
// external asset picked in the admin panel.
func (uc *GalleryUseCase) AddItem(ctx context.Context, in AddItemInput) (*gallery.Item, error) {
	kind, err := media.ParseKind(in.MediaType)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	item := &gallery.Item{
		GalleryID:       in.GalleryID,
		MediaURL:        in.MediaURL,
		ExternalAssetID: in.ExternalAssetID,
		MediaType:       kind,
		Caption:         in.Caption,
	}
	if err := item.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.appendItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UploadItem stores a file under gallery-media/<gallery_id>/ and appends it.
func (uc *GalleryUseCase) UploadItem(ctx context.Context, galleryID uuid.UUID, caption string, file mediauc.UploadFile) (*gallery.Item, error) {
	ctx, span := tracer.Start(ctx, "UploadGalleryItem")
	defer span.End()

	if _, err := uc.repo.FindByID(ctx, galleryID); err != nil {
		return nil, err
	}
	out, err := uc.uploads.Execute(ctx, file, func(ext string, at time.Time) mediauc.ObjectPath {
		return mediauc.GalleryMediaPath(galleryID, ext, at)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	url := out.URL
	item := &gallery.Item{GalleryID: galleryID, MediaURL: &url, MediaType: out.MediaType, Caption: caption}
	if err := uc.appendItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *GalleryUseCase) appendItem(ctx context.Context, item *gallery.Item) error {
	items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableGalleryMedia, ParentID: &item.GalleryID})
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	item.ID = uuid.New()
	item.DisplayOrder = ordering.Next(items)
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := uc.repo.SaveItem(ctx, item); err != nil {
		return err
	}
	uc.logger.Info("Gallery item added", zap.String("gallery_id", item.GalleryID.String()), zap.Int("display_order", item.DisplayOrder))
	uc.revalid.After(ctx, site.PathMedia)
	return nil
}

func (uc *GalleryUseCase) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	uc.revalid.After(ctx, site.PathMedia)
	return nil
}
