package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/khoahotran/duo-site/internal/domain/event"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresEventRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresEventRepo(db DB, logger logger.Logger) event.Repository {
	return &postgresEventRepo{db: db, logger: logger}
}

const eventColumns = `id, title, venue, city, country, starts_at, ticket_url, description, image_url, external_asset_id, display_order, is_published, created_at, updated_at`

func scanEvent(row pgx.Row) (*event.Event, error) {
	e := &event.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Venue, &e.City, &e.Country, &e.StartsAt, &e.TicketURL, &e.Description,
		&e.ImageURL, &e.ExternalAssetID, &e.DisplayOrder, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *postgresEventRepo) Save(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.Title, e.Venue, e.City, e.Country, e.StartsAt, e.TicketURL, e.Description,
		e.ImageURL, e.ExternalAssetID, e.DisplayOrder, e.IsPublished, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return dbError("event", "id", e.ID.String(), "save", err)
	}
	return nil
}

func (r *postgresEventRepo) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events SET
			title = $2, venue = $3, city = $4, country = $5, starts_at = $6, ticket_url = $7,
			description = $8, image_url = $9, external_asset_id = $10, is_published = $11, updated_at = $12
		WHERE id = $1
	`
	return execOne(ctx, r.db, "event", e.ID.String(), query,
		e.ID, e.Title, e.Venue, e.City, e.Country, e.StartsAt, e.TicketURL,
		e.Description, e.ImageURL, e.ExternalAssetID, e.IsPublished, e.UpdatedAt,
	)
}

func (r *postgresEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, "event", id.String(), `DELETE FROM events WHERE id = $1`, id)
}

func (r *postgresEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("event", id.String(), err)
	}
	return e, nil
}

// List orders admin listings by display_order and public listings by date.
func (r *postgresEventRepo) List(ctx context.Context, f event.ListFilter) ([]*event.Event, error) {
	builder := psql.Select(eventColumns).From("events")
	if f.PublishedOnly {
		builder = builder.Where(sq.Eq{"is_published": true}).OrderBy("starts_at ASC", "display_order ASC")
	} else {
		builder = builder.OrderBy("display_order ASC", "created_at ASC")
	}
	if !f.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"starts_at": f.From})
	}
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list events query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("event", "", "", "list", err)
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, notFoundOr("event", "", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("event", "", "", "iterate", err)
	}
	return events, nil
}
