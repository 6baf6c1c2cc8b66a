package persistence

import (
	"context"

	"github.com/khoahotran/duo-site/internal/domain/booking"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type postgresBookingRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresBookingRepo(db DB, logger logger.Logger) booking.Repository {
	return &postgresBookingRepo{db: db, logger: logger}
}

func (r *postgresBookingRepo) Save(ctx context.Context, i *booking.Inquiry) error {
	query := `
		INSERT INTO booking_inquiries (id, name, email, phone, event_date, venue, city, budget, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err := r.db.Exec(ctx, query, i.ID, i.Name, i.Email, i.Phone, i.EventDate, i.Venue, i.City, i.Budget, i.Message, i.CreatedAt)
	if err != nil {
		return dbError("booking inquiry", "id", i.ID.String(), "save", err)
	}
	return nil
}

func (r *postgresBookingRepo) List(ctx context.Context, limit, offset int) ([]*booking.Inquiry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, event_date, venue, city, budget, message, created_at
		FROM booking_inquiries ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, dbError("booking inquiry", "", "", "list", err)
	}
	defer rows.Close()

	inquiries := make([]*booking.Inquiry, 0)
	for rows.Next() {
		i := &booking.Inquiry{}
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Phone, &i.EventDate, &i.Venue, &i.City,
			&i.Budget, &i.Message, &i.CreatedAt); err != nil {
			return nil, notFoundOr("booking inquiry", "", err)
		}
		inquiries = append(inquiries, i)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("booking inquiry", "", "", "iterate", err)
	}
	return inquiries, nil
}
