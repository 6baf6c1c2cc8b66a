package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/order"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

// HandleWebhookUseCase records a paid order for every completed checkout.
// Deliveries are not deduplicated: a redelivered event inserts another order.
type HandleWebhookUseCase struct {
	payments  service.PaymentProvider
	orderRepo order.Repository
	publisher service.EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewHandleWebhookUseCase(p service.PaymentProvider, r order.Repository, pub service.EventPublisher, log logger.Logger) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		payments:  p,
		orderRepo: r,
		publisher: pub,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type HandleWebhookInput struct {
	Payload   []byte
	Signature string
}

type HandleWebhookOutput struct {
	Received bool       `json:"received"`
	OrderID  *uuid.UUID `json:"order_id,omitempty"`
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, in HandleWebhookInput) (*HandleWebhookOutput, error) {
	ctx, span := tracer.Start(ctx, "HandleStripeWebhook",
		trace.WithAttributes(attribute.Int("stripe.payload_bytes", len(in.Payload))))
	defer span.End()

	if in.Signature == "" {
		return nil, apperror.NewInvalidInput("missing Stripe-Signature header", nil)
	}
	completed, err := uc.payments.ParseCompletedCheckout(in.Payload, in.Signature)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, service.ErrInvalidSignature) {
			uc.logger.Warn("Rejected Stripe webhook with invalid signature")
			return nil, apperror.NewInvalidInput("invalid webhook signature", err)
		}
		return nil, apperror.NewInvalidInput("malformed webhook payload", err)
	}
	if completed == nil {
		return &HandleWebhookOutput{Received: true}, nil
	}
	span.SetAttributes(attribute.String("stripe.session_id", completed.SessionID))

	lines, err := uc.payments.ListLineItems(ctx, completed.SessionID)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to fetch checkout line items", err, zap.String("session_id", completed.SessionID))
		return nil, apperror.NewUpstream("Stripe", "list line items for "+completed.SessionID, err)
	}

	o := &order.Order{
		ID:                  uuid.New(),
		StripeSessionID:     completed.SessionID,
		StripePaymentIntent: completed.PaymentIntent,
		CustomerEmail:       completed.CustomerEmail,
		CustomerName:        completed.CustomerName,
		AmountTotalCents:    completed.AmountTotal,
		Currency:            completed.Currency,
		Status:              order.StatusPaid,
		CreatedAt:           uc.now(),
	}
	for _, l := range lines {
		o.Items = append(o.Items, order.Item{
			ID:            uuid.New(),
			OrderID:       o.ID,
			StripePriceID: l.PriceID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			PriceCents:    l.UnitAmount,
		})
	}

	if err := uc.orderRepo.SaveWithItems(ctx, o); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to persist paid order", err, zap.String("session_id", completed.SessionID))
		return nil, err
	}

	uc.logger.Info("Order recorded", zap.String("order_id", o.ID.String()), zap.Int("items", len(o.Items)))
	uc.publisher.Publish(ctx, service.EventOrderPaid, o.ID.String(), o)
	return &HandleWebhookOutput{Received: true, OrderID: &o.ID}, nil
}
