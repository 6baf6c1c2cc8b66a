package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPaid Status = "paid"
)

// Order is written once per completed checkout session.
type Order struct {
	ID                  uuid.UUID `json:"id"`
	StripeSessionID     string    `json:"stripe_session_id"`
	StripePaymentIntent *string   `json:"stripe_payment_intent"`
	CustomerEmail       *string   `json:"customer_email"`
	CustomerName        *string   `json:"customer_name"`
	AmountTotalCents    int64     `json:"amount_total_cents"`
	Currency            string    `json:"currency"`
	Status              Status    `json:"status"`
	Items               []Item    `json:"items"`
	CreatedAt           time.Time `json:"created_at"`
}

type Item struct {
	ID            uuid.UUID `json:"id"`
	OrderID       uuid.UUID `json:"order_id"`
	StripePriceID string    `json:"stripe_price_id"`
	Description   string    `json:"description"`
	Quantity      int64     `json:"quantity"`
	PriceCents    int64     `json:"price_cents"`
}

type Repository interface {
	// SaveWithItems writes the order and all of its items in one transaction.
	SaveWithItems(ctx context.Context, o *Order) error
	List(ctx context.Context, limit, offset int) ([]*Order, error)
}
