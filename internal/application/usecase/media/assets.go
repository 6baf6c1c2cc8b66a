package media

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type AssetInput struct {
	Provider       media.Provider `json:"provider"`
	FileID         string         `json:"file_id"`
	MimeType       *string        `json:"mime_type"`
	ThumbnailURL   *string        `json:"thumbnail_url"`
	PreviewURL     *string        `json:"preview_url"`
	SizeBytes      *int64         `json:"size_bytes"`
	Name           *string        `json:"name"`
	WebViewLink    *string        `json:"web_view_link"`
	SourceFolderID *string        `json:"source_folder_id"`
}

// CreateAssetsUseCase records picker selections as external asset rows.
type CreateAssetsUseCase struct {
	assetRepo media.Repository
	publisher service.EventPublisher
	logger    logger.Logger
	now       func() time.Time
	idGen     func() uuid.UUID
}

func NewCreateAssetsUseCase(r media.Repository, p service.EventPublisher, log logger.Logger) *CreateAssetsUseCase {
	return &CreateAssetsUseCase{
		assetRepo: r,
		publisher: p,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     uuid.New,
	}
}

type CreateAssetsOutput struct {
	Assets []*media.ExternalAsset `json:"assets"`
}

// Execute inserts one row per input in a single batch. Any invalid entry
// rejects the whole batch before anything is written.
func (uc *CreateAssetsUseCase) Execute(ctx context.Context, in []AssetInput) (*CreateAssetsOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateAssets")
	defer span.End()

	if len(in) == 0 {
		return nil, apperror.NewInvalidInput("at least one asset is required", nil)
	}

	now := uc.now()
	assets := make([]*media.ExternalAsset, 0, len(in))
	for _, a := range in {
		asset := &media.ExternalAsset{
			ID:             uc.idGen(),
			Provider:       a.Provider,
			FileID:         strings.TrimSpace(a.FileID),
			MimeType:       a.MimeType,
			ThumbnailURL:   a.ThumbnailURL,
			PreviewURL:     a.PreviewURL,
			SizeBytes:      a.SizeBytes,
			Name:           a.Name,
			WebViewLink:    a.WebViewLink,
			SourceFolderID: a.SourceFolderID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := asset.Validate(); err != nil {
			return nil, apperror.NewInvalidInput(err.Error(), err)
		}
		assets = append(assets, asset)
	}

	if err := uc.assetRepo.SaveBatch(ctx, assets); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("External media assets created", zap.Int("count", len(assets)))
	uc.publisher.Publish(ctx, service.EventAssetsImported, string(assets[0].Provider), assetIDs(assets))
	return &CreateAssetsOutput{Assets: assets}, nil
}

// UploadcareFile is what the Uploadcare widget reports for one uploaded file.
type UploadcareFile struct {
	UUID     string  `json:"uuid"`
	CDNURL   string  `json:"cdnUrl"`
	MimeType string  `json:"mimeType"`
	Size     *int64  `json:"size"`
	Name     *string `json:"name"`
}

// UploadcareInputs maps widget files to asset rows: the CDN URL becomes the
// preview URL and doubles as the thumbnail for images only.
func UploadcareInputs(files []UploadcareFile) []AssetInput {
	out := make([]AssetInput, 0, len(files))
	for _, f := range files {
		in := AssetInput{
			Provider:  media.ProviderUploadcare,
			FileID:    f.UUID,
			SizeBytes: f.Size,
			Name:      f.Name,
		}
		if f.MimeType != "" {
			mime := f.MimeType
			in.MimeType = &mime
		}
		if f.CDNURL != "" {
			preview := f.CDNURL
			in.PreviewURL = &preview
			if strings.HasPrefix(f.MimeType, "image/") {
				thumb := f.CDNURL
				in.ThumbnailURL = &thumb
			}
		}
		out = append(out, in)
	}
	return out
}

func assetIDs(assets []*media.ExternalAsset) []string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID.String()
	}
	return ids
}
