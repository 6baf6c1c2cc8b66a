package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/khoahotran/duo-site/internal/domain/gallery"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresGalleryRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresGalleryRepo(db DB, logger logger.Logger) gallery.Repository {
	return &postgresGalleryRepo{db: db, logger: logger}
}

const (
	galleryColumns     = `id, slug, title, description, display_order, is_published, created_at, updated_at`
	galleryItemColumns = `id, gallery_id, media_url, external_asset_id, media_type, caption, display_order, created_at, updated_at`
)

func scanGallery(row pgx.Row) (*gallery.Gallery, error) {
	g := &gallery.Gallery{}
	err := row.Scan(&g.ID, &g.Slug, &g.Title, &g.Description, &g.DisplayOrder, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func scanGalleryItem(row pgx.Row) (gallery.Item, error) {
	var it gallery.Item
	err := row.Scan(&it.ID, &it.GalleryID, &it.MediaURL, &it.ExternalAssetID, &it.MediaType,
		&it.Caption, &it.DisplayOrder, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *postgresGalleryRepo) Save(ctx context.Context, g *gallery.Gallery) error {
	query := `INSERT INTO galleries (` + galleryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, g.ID, g.Slug, g.Title, g.Description, g.DisplayOrder, g.IsPublished, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return dbError("gallery", "slug", g.Slug, "save", err)
	}
	return nil
}

func (r *postgresGalleryRepo) Update(ctx context.Context, g *gallery.Gallery) error {
	query := `
		UPDATE galleries SET slug = $2, title = $3, description = $4, is_published = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, g.ID, g.Slug, g.Title, g.Description, g.IsPublished, g.UpdatedAt)
	if err != nil {
		return dbError("gallery", "slug", g.Slug, "update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("gallery", g.ID.String())
	}
	return nil
}

func (r *postgresGalleryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "gallery", id.String(), `DELETE FROM galleries WHERE id = $1`, id)
}

func (r *postgresGalleryRepo) FindByID(ctx context.Context, id uuid.UUID) (*gallery.Gallery, error) {
	return r.findOne(ctx, "id", id.String(), id)
}

func (r *postgresGalleryRepo) FindBySlug(ctx context.Context, slug string) (*gallery.Gallery, error) {
	return r.findOne(ctx, "slug", slug, slug)
}

func (r *postgresGalleryRepo) findOne(ctx context.Context, column, ident string, value any) (*gallery.Gallery, error) {
	g, err := scanGallery(r.db.QueryRow(ctx, `SELECT `+galleryColumns+` FROM galleries WHERE `+column+` = $1`, value))
	if err != nil {
		return nil, notFoundOr("gallery", ident, err)
	}
	items, err := r.ListItems(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Items = items
	return g, nil
}

func (r *postgresGalleryRepo) List(ctx context.Context, publishedOnly bool) ([]*gallery.Gallery, error) {
	builder := psql.Select(galleryColumns).From("galleries").OrderBy("display_order ASC", "created_at ASC")
	if publishedOnly {
		builder = builder.Where(sq.Eq{"is_published": true})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list galleries query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("gallery", "", "", "list", err)
	}
	galleries := make([]*gallery.Gallery, 0)
	byID := make(map[uuid.UUID]*gallery.Gallery)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			rows.Close()
			return nil, notFoundOr("gallery", "", err)
		}
		g.Items = []gallery.Item{}
		galleries = append(galleries, g)
		byID[g.ID] = g
		ids = append(ids, g.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("gallery", "", "", "iterate", err)
	}
	if len(ids) == 0 {
		return galleries, nil
	}

	items, err := r.listItemsWhere(ctx, sq.Eq{"gallery_id": ids})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if g, ok := byID[it.GalleryID]; ok {
			g.Items = append(g.Items, it)
		}
	}
	return galleries, nil
}

func (r *postgresGalleryRepo) SaveItem(ctx context.Context, it *gallery.Item) error {
	query := `INSERT INTO gallery_media (` + galleryItemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, it.ID, it.GalleryID, it.MediaURL, it.ExternalAssetID, it.MediaType,
		it.Caption, it.DisplayOrder, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return dbError("gallery item", "id", it.ID.String(), "save", err)
	}
	return nil
}

func (r *postgresGalleryRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "gallery item", id.String(), `DELETE FROM gallery_media WHERE id = $1`, id)
}

func (r *postgresGalleryRepo) ListItems(ctx context.Context, galleryID uuid.UUID) ([]gallery.Item, error) {
	return r.listItemsWhere(ctx, sq.Eq{"gallery_id": galleryID})
}

func (r *postgresGalleryRepo) listItemsWhere(ctx context.Context, where sq.Sqlizer) ([]gallery.Item, error) {
	sql, args, err := psql.Select(galleryItemColumns).From("gallery_media").
		Where(where).OrderBy("display_order ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list gallery items query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("gallery item", "", "", "list", err)
	}
	defer rows.Close()

	items := make([]gallery.Item, 0)
	for rows.Next() {
		it, err := scanGalleryItem(rows)
		if err != nil {
			return nil, notFoundOr("gallery item", "", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("gallery item", "", "", "iterate", err)
	}
	return items, nil
}
