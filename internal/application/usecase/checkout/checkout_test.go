package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/order"
	"github.com/khoahotran/duo-site/pkg/apperror"
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

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, eventType string, key string, payload any) {
	m.Called(ctx, eventType, key, payload)
}

func TestCreateCheckout_Validates(t *testing.T) {
	payments := new(PaymentsMock)
	uc := NewCreateCheckoutUseCase(payments, logger.NewNop())

	cases := []CreateCheckoutInput{
		{},
		{Items: []service.CheckoutLine{{PriceID: "", Quantity: 1}}},
		{Items: []service.CheckoutLine{{PriceID: "price_1", Quantity: 0}}},
		{Items: []service.CheckoutLine{{PriceID: "price_1", Quantity: 100}}},
	}
	for _, in := range cases {
		_, err := uc.Execute(context.Background(), in)
		require.ErrorIs(t, err, apperror.ErrInvalidInput)
	}
	payments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckout_ReturnsSessionURL(t *testing.T) {
	payments := new(PaymentsMock)
	uc := NewCreateCheckoutUseCase(payments, logger.NewNop())
	lines := []service.CheckoutLine{{PriceID: "price_shirt", Quantity: 2}}
	payments.On("CreateCheckoutSession", mock.Anything, lines).
		Return(&service.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil).Once()

	out, err := uc.Execute(context.Background(), CreateCheckoutInput{Items: []service.CheckoutLine{{PriceID: " price_shirt ", Quantity: 2}}})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", out.URL)
}

func TestCreateCheckout_StripeFailure(t *testing.T) {
	payments := new(PaymentsMock)
	uc := NewCreateCheckoutUseCase(payments, logger.NewNop())
	payments.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("No such price: 'price_x'")).Once()

	_, err := uc.Execute(context.Background(), CreateCheckoutInput{Items: []service.CheckoutLine{{PriceID: "price_x", Quantity: 1}}})
	require.ErrorIs(t, err, apperror.ErrUpstream)
}

func newWebhook() (*HandleWebhookUseCase, *PaymentsMock, *OrderRepoMock, *PublisherMock) {
	payments := new(PaymentsMock)
	repo := new(OrderRepoMock)
	pub := new(PublisherMock)
	return NewHandleWebhookUseCase(payments, repo, pub, logger.NewNop()), payments, repo, pub
}

func TestWebhook_CompletedCheckoutRecordsPaidOrder(t *testing.T) {
	uc, payments, repo, pub := newWebhook()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	email := "fan@example.com"

	payments.On("ParseCompletedCheckout", payload, "t=1,v1=abc").Return(&service.CompletedCheckout{
		SessionID:     "cs_test_42",
		CustomerEmail: &email,
		AmountTotal:   6500,
		Currency:      "usd",
	}, nil).Once()
	payments.On("ListLineItems", mock.Anything, "cs_test_42").Return([]service.PaidLine{
		{PriceID: "price_shirt", Description: "Tour Shirt", Quantity: 1, UnitAmount: 2500},
		{PriceID: "price_vinyl", Description: "Vinyl", Quantity: 2, UnitAmount: 2000},
	}, nil).Once()

	var saved *order.Order
	repo.On("SaveWithItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*order.Order)
	}).Return(nil).Once()
	pub.On("Publish", mock.Anything, service.EventOrderPaid, mock.Anything, mock.Anything).Once()

	out, err := uc.Execute(context.Background(), HandleWebhookInput{Payload: payload, Signature: "t=1,v1=abc"})
	require.NoError(t, err)
	require.NotNil(t, out.OrderID)

	require.NotNil(t, saved)
	assert.Equal(t, order.StatusPaid, saved.Status)
	assert.Equal(t, int64(6500), saved.AmountTotalCents)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, int64(2500), saved.Items[0].PriceCents)
	assert.Equal(t, int64(2000), saved.Items[1].PriceCents)
	assert.Equal(t, int64(2), saved.Items[1].Quantity)
	for _, it := range saved.Items {
		assert.Equal(t, saved.ID, it.OrderID)
	}
	repo.AssertNumberOfCalls(t, "SaveWithItems", 1)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	uc, payments, repo, _ := newWebhook()
	payments.On("ParseCompletedCheckout", mock.Anything, "bad").Return(nil, service.ErrInvalidSignature).Once()

	_, err := uc.Execute(context.Background(), HandleWebhookInput{Payload: []byte("{}"), Signature: "bad"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), HandleWebhookInput{Payload: []byte("{}")})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	repo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
}

func TestWebhook_OtherEventsAreAcknowledged(t *testing.T) {
	uc, payments, repo, _ := newWebhook()
	payments.On("ParseCompletedCheckout", mock.Anything, "sig").Return(nil, nil).Once()

	out, err := uc.Execute(context.Background(), HandleWebhookInput{Payload: []byte(`{"type":"charge.refunded"}`), Signature: "sig"})
	require.NoError(t, err)
	assert.True(t, out.Received)
	assert.Nil(t, out.OrderID)
	payments.AssertNotCalled(t, "ListLineItems", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveWithItems", mock.Anything, mock.Anything)
}
