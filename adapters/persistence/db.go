package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

func NewPostgresPool(cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

// dbError wraps a store failure; a unique violation becomes a conflict on field.
func dbError(resource, field, value, action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.NewConflict(resource, field, value)
	}
	return apperror.NewUpstream("Database", fmt.Sprintf("failed to %s %s", action, resource), err)
}

func notFoundOr(resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(resource, id)
	}
	return apperror.NewUpstream("Database", "failed to scan "+resource+" row", err)
}

// execOne runs a single-row write and reports not found when nothing matched.
func execOne(ctx context.Context, db DB, resource, id, query string, args ...any) error {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return dbError(resource, "id", id, "write", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(resource, id)
	}
	return nil
}
