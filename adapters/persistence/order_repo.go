package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/khoahotran/duo-site/internal/domain/order"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresOrderRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresOrderRepo(db DB, logger logger.Logger) order.Repository {
	return &postgresOrderRepo{db: db, logger: logger}
}

func (r *postgresOrderRepo) SaveWithItems(ctx context.Context, o *order.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewUpstream("Database", "failed to begin order transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, stripe_session_id, stripe_payment_intent, customer_email, customer_name,
			amount_total_cents, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, o.ID, o.StripeSessionID, o.StripePaymentIntent, o.CustomerEmail, o.CustomerName,
		o.AmountTotalCents, o.Currency, o.Status, o.CreatedAt)
	if err != nil {
		return dbError("order", "id", o.ID.String(), "save", err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, stripe_price_id, description, quantity, price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, o.ID, it.StripePriceID, it.Description, it.Quantity, it.PriceCents)
		if err != nil {
			return dbError("order item", "id", it.ID.String(), "save", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewUpstream("Database", fmt.Sprintf("failed to commit order %s", o.ID), err)
	}
	return nil
}

func (r *postgresOrderRepo) List(ctx context.Context, limit, offset int) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, stripe_session_id, stripe_payment_intent, customer_email, customer_name,
			amount_total_cents, currency, status, created_at
		FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, dbError("order", "", "", "list", err)
	}
	orders := make([]*order.Order, 0)
	byID := make(map[uuid.UUID]*order.Order)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		o := &order.Order{Items: []order.Item{}}
		if err := rows.Scan(&o.ID, &o.StripeSessionID, &o.StripePaymentIntent, &o.CustomerEmail, &o.CustomerName,
			&o.AmountTotalCents, &o.Currency, &o.Status, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, notFoundOr("order", "", err)
		}
		orders = append(orders, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("order", "", "", "iterate", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	sql, args, err := psql.Select("id, order_id, stripe_price_id, description, quantity, price_cents").
		From("order_items").Where(sq.Eq{"order_id": ids}).OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list order items query", err)
	}
	itemRows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, dbError("order item", "", "", "list", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it order.Item
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.StripePriceID, &it.Description, &it.Quantity, &it.PriceCents); err != nil {
			return nil, notFoundOr("order item", "", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, dbError("order item", "", "", "iterate", err)
	}
	return orders, nil
}
