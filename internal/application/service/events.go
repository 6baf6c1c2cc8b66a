package service

import "context"

const (
	EventBookingSubmitted = "booking.submitted"
	EventOrderPaid        = "order.paid"
	EventAssetsImported   = "asset.imported"
)

// EventPublisher emits site events. Publishing never blocks the caller's
// response and failures are only logged.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload any)
}
