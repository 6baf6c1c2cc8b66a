package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const eventCheckoutCompleted = "checkout.session.completed"

type stripeAdapter struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeAdapter(cfg config.Config, log logger.Logger) (service.PaymentProvider, error) {
	if cfg.Stripe.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret_key has not config")
	}
	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)

	log.Info("Initialize Stripe client successfully.")
	return newStripeAdapter(api, cfg), nil
}

func newStripeAdapter(api *client.API, cfg config.Config) *stripeAdapter {
	return &stripeAdapter{
		api:           api,
		webhookSecret: cfg.Stripe.WebhookSecret,
		successURL:    cfg.Stripe.SuccessURL,
		cancelURL:     cfg.Stripe.CancelURL,
	}
}

func (a *stripeAdapter) CreateCheckoutSession(ctx context.Context, lines []service.CheckoutLine) (*service.CheckoutSession, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, l := range lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(l.PriceID),
			Quantity: stripe.Int64(l.Quantity),
		})
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(a.successURL),
		CancelURL:  stripe.String(a.cancelURL),
	}
	params.Context = ctx

	sess, err := a.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (a *stripeAdapter) ParseCompletedCheckout(payload []byte, signature string) (*service.CompletedCheckout, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, a.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidSignature, err)
	}
	if string(event.Type) != eventCheckoutCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return completedFromSession(&sess), nil
}

func completedFromSession(sess *stripe.CheckoutSession) *service.CompletedCheckout {
	out := &service.CompletedCheckout{
		SessionID:   sess.ID,
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		pi := sess.PaymentIntent.ID
		out.PaymentIntent = &pi
	}
	if d := sess.CustomerDetails; d != nil {
		if d.Email != "" {
			email := d.Email
			out.CustomerEmail = &email
		}
		if d.Name != "" {
			name := d.Name
			out.CustomerName = &name
		}
	}
	return out
}

func (a *stripeAdapter) ListLineItems(ctx context.Context, sessionID string) ([]service.PaidLine, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{Session: stripe.String(sessionID)}
	params.Context = ctx

	iter := a.api.CheckoutSessions.ListLineItems(params)
	lines := make([]service.PaidLine, 0)
	for iter.Next() {
		li := iter.LineItem()
		line := service.PaidLine{Description: li.Description, Quantity: li.Quantity}
		if li.Price != nil {
			line.PriceID = li.Price.ID
			line.UnitAmount = li.Price.UnitAmount
		}
		lines = append(lines, line)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
