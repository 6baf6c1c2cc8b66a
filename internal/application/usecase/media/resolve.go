package media

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("media_usecase")

type ResolveMediaUseCase struct {
	assetRepo media.Repository
	logger    logger.Logger
}

func NewResolveMediaUseCase(r media.Repository, log logger.Logger) *ResolveMediaUseCase {
	return &ResolveMediaUseCase{assetRepo: r, logger: log}
}

// Execute turns a content row's media reference into a displayable URL.
// An external asset wins over a direct URL; a missing or unusable asset
// falls through to the direct URL. nil means nothing to show.
// At most one store read happens and nothing is written or cached.
func (uc *ResolveMediaUseCase) Execute(ctx context.Context, ref media.Reference) *media.Resolved {
	ctx, span := tracer.Start(ctx, "ResolveMedia")
	defer span.End()

	if ref.ExternalAssetID != nil {
		asset, err := uc.assetRepo.FindByID(ctx, *ref.ExternalAssetID)
		switch {
		case err == nil:
			if resolved := media.ResolveSource(media.SourceOf(asset)); resolved != nil {
				return resolved
			}
		case errors.Is(err, apperror.ErrNotFound):
			uc.logger.Warn("External media asset missing, falling back", zap.String("asset_id", ref.ExternalAssetID.String()))
		default:
			span.RecordError(err)
			uc.logger.Error("Failed to load external media asset", err, zap.String("asset_id", ref.ExternalAssetID.String()))
		}
	}

	if ref.DirectURL != nil {
		return media.ResolveSource(media.DirectSource{URL: *ref.DirectURL})
	}
	return nil
}
