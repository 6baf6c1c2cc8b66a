package media

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/internal/render"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

// AuditDriveAccessUseCase re-checks freshly imported Drive files and reports
// the ones visitors will not be able to load.
type AuditDriveAccessUseCase struct {
	assetRepo media.Repository
	checker   render.DriveAccessChecker
	logger    logger.Logger

	disabledOnce sync.Once
}

func NewAuditDriveAccessUseCase(r media.Repository, checker render.DriveAccessChecker, log logger.Logger) *AuditDriveAccessUseCase {
	return &AuditDriveAccessUseCase{assetRepo: r, checker: checker, logger: log}
}

type AuditDriveAccessOutput struct {
	Checked      int
	Inaccessible []*media.ExternalAsset
}

type pendingCheck struct {
	asset *media.ExternalAsset
	probe *render.EmbedProbe
}

// Execute skips malformed ids, missing rows and non-Drive assets. Every Drive
// file is checked concurrently. A store failure or cancellation is returned,
// so the caller can retry the batch. Without a checker nothing is audited.
func (uc *AuditDriveAccessUseCase) Execute(ctx context.Context, assetIDs []string) (*AuditDriveAccessOutput, error) {
	if uc.checker == nil {
		uc.disabledOnce.Do(func() {
			uc.logger.Info("Google Drive credentials not configured, skipping import access audits")
		})
		return &AuditDriveAccessOutput{}, nil
	}

	ctx, span := tracer.Start(ctx, "AuditDriveAccess")
	defer span.End()

	var checks []pendingCheck
	for _, raw := range assetIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			uc.logger.Warn("Skipping malformed asset id", zap.String("asset_id", raw))
			continue
		}
		asset, err := uc.assetRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue
			}
			span.RecordError(err)
			return nil, err
		}
		if asset.Provider != media.ProviderGoogleDrive {
			continue
		}

		probe := render.NewEmbedProbe()
		fileID := asset.FileID
		probe.Start(ctx, func(ctx context.Context) bool { return uc.checker.CheckAccess(ctx, fileID) })
		checks = append(checks, pendingCheck{asset: asset, probe: probe})
	}

	out := &AuditDriveAccessOutput{Checked: len(checks)}
	for _, c := range checks {
		select {
		case <-c.probe.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if c.probe.State() == render.ProbeInaccessible {
			out.Inaccessible = append(out.Inaccessible, c.asset)
			uc.logger.Warn("Imported Drive file is not publicly readable",
				zap.String("asset_id", c.asset.ID.String()),
				zap.String("file_id", c.asset.FileID),
			)
		}
	}
	return out, nil
}
