package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresOrderingRepo struct {
	db     DB
	logger logger.Logger
}

// NewPostgresOrderingRepo serves display_order reads and writes for every
// orderable table. Table names come only from ordering.Table constants.
func NewPostgresOrderingRepo(db DB, logger logger.Logger) ordering.Repository {
	return &postgresOrderingRepo{db: db, logger: logger}
}

func (r *postgresOrderingRepo) ListItems(ctx context.Context, scope ordering.Scope) ([]ordering.Item, error) {
	if !scope.Table.Valid() {
		return nil, apperror.NewInvalidInput(ordering.ErrInvalidTable.Error(), ordering.ErrInvalidTable)
	}
	builder := psql.Select("id", "display_order").From(string(scope.Table)).OrderBy("display_order ASC", "created_at ASC")
	if col := scope.Table.ParentColumn(); col != "" && scope.ParentID != nil {
		builder = builder.Where(sq.Eq{col: *scope.ParentID})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build ordering query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError(string(scope.Table), "", "", "list", err)
	}
	defer rows.Close()

	items := make([]ordering.Item, 0)
	for rows.Next() {
		var it ordering.Item
		if err := rows.Scan(&it.ID, &it.DisplayOrder); err != nil {
			return nil, notFoundOr(string(scope.Table), "", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(string(scope.Table), "", "", "iterate", err)
	}
	return items, nil
}

func (r *postgresOrderingRepo) ParentOf(ctx context.Context, table ordering.Table, id uuid.UUID) (*uuid.UUID, error) {
	col := table.ParentColumn()
	if col == "" {
		return nil, nil
	}
	var parent uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT `+col+` FROM `+string(table)+` WHERE id = $1`, id).Scan(&parent)
	if err != nil {
		return nil, notFoundOr(string(table), id.String(), err)
	}
	return &parent, nil
}

func (r *postgresOrderingRepo) SetDisplayOrder(ctx context.Context, table ordering.Table, w ordering.Write) error {
	if !table.Valid() {
		return apperror.NewInvalidInput(ordering.ErrInvalidTable.Error(), ordering.ErrInvalidTable)
	}
	return execOne(ctx, r.db, string(table), w.ID.String(),
		`UPDATE `+string(table)+` SET display_order = $2, updated_at = NOW() WHERE id = $1`, w.ID, w.DisplayOrder)
}
