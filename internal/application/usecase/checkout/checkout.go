package checkout

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("checkout_usecase")

const maxQuantity = 99

type CreateCheckoutUseCase struct {
	payments service.PaymentProvider
	logger   logger.Logger
}

func NewCreateCheckoutUseCase(p service.PaymentProvider, log logger.Logger) *CreateCheckoutUseCase {
	return &CreateCheckoutUseCase{payments: p, logger: log}
}

type CreateCheckoutInput struct {
	Items []service.CheckoutLine
}

type CreateCheckoutOutput struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func (uc *CreateCheckoutUseCase) Execute(ctx context.Context, in CreateCheckoutInput) (*CreateCheckoutOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateCheckout")
	defer span.End()

	if len(in.Items) == 0 {
		return nil, apperror.NewInvalidInput("cart is empty", nil)
	}
	for i, line := range in.Items {
		if strings.TrimSpace(line.PriceID) == "" {
			return nil, apperror.NewInvalidInput("price_id is required", nil)
		}
		if line.Quantity < 1 || line.Quantity > maxQuantity {
			return nil, apperror.NewInvalidInput("quantity must be between 1 and 99", nil)
		}
		in.Items[i].PriceID = strings.TrimSpace(line.PriceID)
	}

	session, err := uc.payments.CreateCheckoutSession(ctx, in.Items)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to create checkout session", err, zap.Int("lines", len(in.Items)))
		return nil, apperror.NewUpstream("Stripe", "create checkout session", err)
	}
	return &CreateCheckoutOutput{SessionID: session.ID, URL: session.URL}, nil
}
