package hero

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	mediauc "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/hero"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("hero_usecase")

var ErrBothMediaSet = errors.New("choose either media_url or external_asset_id, not both")

type HeroUseCase struct {
	repo        hero.Repository
	uploads     *mediauc.UploadMediaUseCase
	revalidator *site.RevalidateUseCase
	logger      logger.Logger
}

func NewHeroUseCase(r hero.Repository, u *mediauc.UploadMediaUseCase, rv *site.RevalidateUseCase, log logger.Logger) *HeroUseCase {
	return &HeroUseCase{repo: r, uploads: u, revalidator: rv, logger: log}
}

// Get returns the page's hero, or an empty one when none was saved yet.
func (uc *HeroUseCase) Get(ctx context.Context, page string) (*hero.Section, error) {
	if err := hero.ValidatePage(page); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	s, err := uc.repo.FindByPage(ctx, page)
	if errors.Is(err, apperror.ErrNotFound) {
		return &hero.Section{Page: page, MediaType: media.KindImage}, nil
	}
	return s, err
}

type SaveHeroInput struct {
	Page            string
	Headline        string
	Subheadline     string
	CTALabel        *string
	CTAURL          *string
	MediaURL        *string
	ExternalAssetID *uuid.UUID
	MediaType       string
}

func (uc *HeroUseCase) Save(ctx context.Context, in SaveHeroInput) (*hero.Section, error) {
	ctx, span := tracer.Start(ctx, "SaveHero")
	defer span.End()

	kind, err := media.ParseKind(in.MediaType)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if in.MediaURL != nil && strings.TrimSpace(*in.MediaURL) == "" {
		in.MediaURL = nil
	}
	if in.MediaURL != nil && in.ExternalAssetID != nil {
		return nil, apperror.NewInvalidInput(ErrBothMediaSet.Error(), ErrBothMediaSet)
	}

	s, err := uc.Get(ctx, in.Page)
	if err != nil {
		return nil, err
	}
	s.Headline = in.Headline
	s.Subheadline = in.Subheadline
	s.CTALabel = in.CTALabel
	s.CTAURL = in.CTAURL
	s.MediaURL = in.MediaURL
	s.ExternalAssetID = in.ExternalAssetID
	s.MediaType = kind

	if err := uc.upsert(ctx, s); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s, nil
}

// UploadMedia stores a file under hero-media/ and points the page's hero at it.
func (uc *HeroUseCase) UploadMedia(ctx context.Context, page string, file mediauc.UploadFile) (*hero.Section, error) {
	ctx, span := tracer.Start(ctx, "UploadHeroMedia")
	defer span.End()

	s, err := uc.Get(ctx, page)
	if err != nil {
		return nil, err
	}

	out, err := uc.uploads.Execute(ctx, file, func(ext string, at time.Time) mediauc.ObjectPath {
		return mediauc.HeroPath(page, ext, at)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.SetDirectMedia(out.URL, out.MediaType)
	if err := uc.upsert(ctx, s); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("Hero media uploaded", zap.String("page", page), zap.String("path", out.Path))
	return s, nil
}

func (uc *HeroUseCase) upsert(ctx context.Context, s *hero.Section) error {
	now := time.Now().UTC()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return err
	}
	uc.revalidator.After(ctx, site.HeroPath(s.Page))
	return nil
}
