package service

import (
	"context"
	"errors"
)

type CheckoutLine struct {
	PriceID  string `json:"price_id"`
	Quantity int64  `json:"quantity"`
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CompletedCheckout is the data carried by a verified checkout.session.completed event.
type CompletedCheckout struct {
	SessionID     string
	PaymentIntent *string
	CustomerEmail *string
	CustomerName  *string
	AmountTotal   int64
	Currency      string
}

type PaidLine struct {
	PriceID     string
	Description string
	Quantity    int64
	UnitAmount  int64
}

var ErrInvalidSignature = errors.New("invalid webhook signature")

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, lines []CheckoutLine) (*CheckoutSession, error)
	// ParseCompletedCheckout verifies the signature and returns nil, nil for
	// any event type other than checkout.session.completed.
	ParseCompletedCheckout(payload []byte, signature string) (*CompletedCheckout, error)
	ListLineItems(ctx context.Context, sessionID string) ([]PaidLine, error)
}
