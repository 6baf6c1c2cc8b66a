package persistence

import (
	"context"

	"github.com/khoahotran/duo-site/internal/domain/hero"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresHeroRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresHeroRepo(db DB, logger logger.Logger) hero.Repository {
	return &postgresHeroRepo{db: db, logger: logger}
}

func (r *postgresHeroRepo) FindByPage(ctx context.Context, page string) (*hero.Section, error) {
	query := `
		SELECT id, page, headline, subheadline, cta_label, cta_url, media_url, media_type, external_asset_id, created_at, updated_at
		FROM hero_sections WHERE page = $1
	`
	s := &hero.Section{}
	err := r.db.QueryRow(ctx, query, page).Scan(
		&s.ID, &s.Page, &s.Headline, &s.Subheadline, &s.CTALabel, &s.CTAURL,
		&s.MediaURL, &s.MediaType, &s.ExternalAssetID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr("hero section", page, err)
	}
	return s, nil
}

// Upsert writes the page's single hero row, keyed by page.
func (r *postgresHeroRepo) Upsert(ctx context.Context, s *hero.Section) error {
	query := `
		INSERT INTO hero_sections (id, page, headline, subheadline, cta_label, cta_url, media_url, media_type, external_asset_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (page) DO UPDATE SET
			headline = EXCLUDED.headline, subheadline = EXCLUDED.subheadline,
			cta_label = EXCLUDED.cta_label, cta_url = EXCLUDED.cta_url,
			media_url = EXCLUDED.media_url, media_type = EXCLUDED.media_type,
			external_asset_id = EXCLUDED.external_asset_id, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.Page, s.Headline, s.Subheadline, s.CTALabel, s.CTAURL,
		s.MediaURL, s.MediaType, s.ExternalAssetID, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return dbError("hero section", "page", s.Page, "save", err)
	}
	return nil
}
