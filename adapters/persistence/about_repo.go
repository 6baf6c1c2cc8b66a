package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/khoahotran/duo-site/internal/domain/about"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresAboutRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresAboutRepo(db DB, logger logger.Logger) about.Repository {
	return &postgresAboutRepo{db: db, logger: logger}
}

const timelineColumns = `id, year, title, description, image_url, external_asset_id, display_order, created_at, updated_at`

func scanTimelineEntry(row pgx.Row) (*about.TimelineEntry, error) {
	e := &about.TimelineEntry{}
	err := row.Scan(&e.ID, &e.Year, &e.Title, &e.Description, &e.ImageURL, &e.ExternalAssetID,
		&e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *postgresAboutRepo) GetProfile(ctx context.Context) (*about.Profile, error) {
	p := &about.Profile{}
	err := r.db.QueryRow(ctx, `
		SELECT bio, press_bio, photo_url, contact_email, updated_at FROM about_profile WHERE id = 1
	`).Scan(&p.Bio, &p.PressBio, &p.PhotoURL, &p.ContactEmail, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &about.Profile{}, nil
	}
	if err != nil {
		return nil, notFoundOr("about profile", "1", err)
	}
	return p, nil
}

func (r *postgresAboutRepo) UpsertProfile(ctx context.Context, p *about.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO about_profile (id, bio, press_bio, photo_url, contact_email, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			bio = EXCLUDED.bio, press_bio = EXCLUDED.press_bio, photo_url = EXCLUDED.photo_url,
			contact_email = EXCLUDED.contact_email, updated_at = EXCLUDED.updated_at
	`, p.Bio, p.PressBio, p.PhotoURL, p.ContactEmail, p.UpdatedAt)
	if err != nil {
		return dbError("about profile", "id", "1", "save", err)
	}
	return nil
}

func (r *postgresAboutRepo) SaveEntry(ctx context.Context, e *about.TimelineEntry) error {
	_, err := r.db.Exec(ctx, `INSERT INTO timeline_entries (`+timelineColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Year, e.Title, e.Description, e.ImageURL, e.ExternalAssetID, e.DisplayOrder, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return dbError("timeline entry", "id", e.ID.String(), "save", err)
	}
	return nil
}

func (r *postgresAboutRepo) UpdateEntry(ctx context.Context, e *about.TimelineEntry) error {
	return execOne(ctx, r.db, "timeline entry", e.ID.String(), `
		UPDATE timeline_entries SET year = $2, title = $3, description = $4, image_url = $5,
			external_asset_id = $6, updated_at = $7
		WHERE id = $1
	`, e.ID, e.Year, e.Title, e.Description, e.ImageURL, e.ExternalAssetID, e.UpdatedAt)
}

func (r *postgresAboutRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "timeline entry", id.String(), `DELETE FROM timeline_entries WHERE id = $1`, id)
}

func (r *postgresAboutRepo) FindEntry(ctx context.Context, id uuid.UUID) (*about.TimelineEntry, error) {
	e, err := scanTimelineEntry(r.db.QueryRow(ctx, `SELECT `+timelineColumns+` FROM timeline_entries WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("timeline entry", id.String(), err)
	}
	return e, nil
}

func (r *postgresAboutRepo) ListEntries(ctx context.Context) ([]*about.TimelineEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+timelineColumns+` FROM timeline_entries ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, dbError("timeline entry", "", "", "list", err)
	}
	defer rows.Close()

	entries := make([]*about.TimelineEntry, 0)
	for rows.Next() {
		e, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, notFoundOr("timeline entry", "", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("timeline entry", "", "", "iterate", err)
	}
	return entries, nil
}
