package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/application/usecase/checkout"
	"github.com/khoahotran/duo-site/internal/domain/order"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type PaymentsMock struct {
	mock.Mock
}

func (m *PaymentsMock) CreateCheckoutSession(ctx context.Context, lines []service.CheckoutLine) (*service.CheckoutSession, error) {
	args := m.Called(ctx, lines)
	if v := args.Get(0); v != nil {
		return v.(*service.CheckoutSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentsMock) ParseCompletedCheckout(payload []byte, signature string) (*service.CompletedCheckout, error) {
	args := m.Called(payload, signature)
	if v := args.Get(0); v != nil {
		return v.(*service.CompletedCheckout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PaymentsMock) ListLineItems(ctx context.Context, sessionID string) ([]service.PaidLine, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.([]service.PaidLine), args.Error(1)
	}
	return nil, args.Error(1)
}

type OrderRepoMock struct {
	mock.Mock
}

func (m *OrderRepoMock) SaveWithItems(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *OrderRepoMock) List(ctx context.Context, limit, offset int) ([]*order.Order, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string, any) {}

func commerceRouter(payments *PaymentsMock, orders *OrderRepoMock) *gin.Engine {
	log := logger.NewNop()
	h := NewCommerceHandler(
		checkout.NewCreateCheckoutUseCase(payments, log),
		checkout.NewHandleWebhookUseCase(payments, orders, nopPublisher{}, log),
		checkout.NewListOrdersUseCase(orders),
	)
	return NewRouter(Handlers{Commerce: h}, testRouterConfig(testJWT()))
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStripeWebhook_CompletedCheckoutPersistsPaidOrder(t *testing.T) {
	payments := new(PaymentsMock)
	orders := new(OrderRepoMock)
	router := commerceRouter(payments, orders)

	payload := []byte(`{"type":"checkout.session.completed"}`)
	email := "fan@example.com"
	payments.On("ParseCompletedCheckout", payload, "t=1,v1=abc").Return(&service.CompletedCheckout{
		SessionID:     "cs_test_1",
		CustomerEmail: &email,
		AmountTotal:   4500,
		Currency:      "usd",
	}, nil).Once()
	payments.On("ListLineItems", mock.Anything, "cs_test_1").Return([]service.PaidLine{
		{PriceID: "price_shirt", Description: "Tour shirt", Quantity: 1, UnitAmount: 2500},
		{PriceID: "price_vinyl", Description: "Vinyl", Quantity: 1, UnitAmount: 2000},
	}, nil).Once()

	var saved *order.Order
	orders.On("SaveWithItems", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	w := postWebhook(router, payload, "t=1,v1=abc")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["received"])
	require.NotNil(t, saved)
	assert.Equal(t, order.StatusPaid, saved.Status)
	assert.Equal(t, "cs_test_1", saved.StripeSessionID)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, int64(2500), saved.Items[0].PriceCents)
	assert.Equal(t, int64(2000), saved.Items[1].PriceCents)
	for _, it := range saved.Items {
		assert.Equal(t, saved.ID, it.OrderID)
	}
	payments.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestStripeWebhook_RejectsBadSignature(t *testing.T) {
	payments := new(PaymentsMock)
	orders := new(OrderRepoMock)
	router := commerceRouter(payments, orders)

	payload := []byte(`{}`)
	payments.On("ParseCompletedCheckout", payload, "forged").Return(nil, service.ErrInvalidSignature).Once()

	w := postWebhook(router, payload, "forged")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(router, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	orders.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
}

func TestStripeWebhook_IgnoresOtherEvents(t *testing.T) {
	payments := new(PaymentsMock)
	orders := new(OrderRepoMock)
	router := commerceRouter(payments, orders)

	payload := []byte(`{"type":"payment_intent.created"}`)
	payments.On("ParseCompletedCheckout", payload, "sig").Return(nil, nil).Once()

	w := postWebhook(router, payload, "sig")
	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
}

func TestCheckout_ReturnsSessionURL(t *testing.T) {
	payments := new(PaymentsMock)
	router := commerceRouter(payments, new(OrderRepoMock))

	lines := []service.CheckoutLine{{PriceID: "price_shirt", Quantity: 2}}
	payments.On("CreateCheckoutSession", mock.Anything, lines).
		Return(&service.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/checkout", map[string]any{"items": lines}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", decodeBody(t, w)["url"])
}
