package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresMediaRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresMediaRepo(db DB, logger logger.Logger) media.Repository {
	return &postgresMediaRepo{db: db, logger: logger}
}

const assetColumns = `id, provider, file_id, mime_type, thumbnail_url, preview_url, size_bytes, name, web_view_link, source_folder_id, created_at, updated_at`

func scanAsset(row pgx.Row) (*media.ExternalAsset, error) {
	a := &media.ExternalAsset{}
	err := row.Scan(
		&a.ID, &a.Provider, &a.FileID, &a.MimeType, &a.ThumbnailURL, &a.PreviewURL,
		&a.SizeBytes, &a.Name, &a.WebViewLink, &a.SourceFolderID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SaveBatch writes every asset with one multi-row INSERT.
func (r *postgresMediaRepo) SaveBatch(ctx context.Context, assets []*media.ExternalAsset) error {
	if len(assets) == 0 {
		return nil
	}
	builder := psql.Insert("external_media_assets").Columns(
		"id", "provider", "file_id", "mime_type", "thumbnail_url", "preview_url",
		"size_bytes", "name", "web_view_link", "source_folder_id", "created_at", "updated_at",
	)
	for _, a := range assets {
		builder = builder.Values(
			a.ID, a.Provider, a.FileID, a.MimeType, a.ThumbnailURL, a.PreviewURL,
			a.SizeBytes, a.Name, a.WebViewLink, a.SourceFolderID, a.CreatedAt, a.UpdatedAt,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build asset batch insert", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dbError("external media asset", "id", assets[0].ID.String(), "insert", err)
	}
	return nil
}

func (r *postgresMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*media.ExternalAsset, error) {
	row := r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM external_media_assets WHERE id = $1`, id)
	a, err := scanAsset(row)
	if err != nil {
		return nil, notFoundOr("external media asset", id.String(), err)
	}
	return a, nil
}

func (r *postgresMediaRepo) List(ctx context.Context, provider media.Provider, limit, offset int) ([]*media.ExternalAsset, error) {
	builder := psql.Select(assetColumns).
		From("external_media_assets").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if provider != "" {
		builder = builder.Where("provider = ?", provider)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list assets query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("external media asset", "", "", "list", err)
	}
	defer rows.Close()

	assets := make([]*media.ExternalAsset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, notFoundOr("external media asset", "", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("external media asset", "", "", "iterate", err)
	}
	return assets, nil
}
