package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/booking"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type BookingRepoMock struct {
	mock.Mock
}

func (m *BookingRepoMock) Save(ctx context.Context, i *booking.Inquiry) error {
	return m.Called(ctx, i).Error(0)
}

func (m *BookingRepoMock) List(ctx context.Context, limit, offset int) ([]*booking.Inquiry, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*booking.Inquiry), args.Error(1)
	}
	return nil, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, eventType string, key string, payload any) {
	m.Called(ctx, eventType, key, payload)
}

func TestSubmit_RequiredFields(t *testing.T) {
	cases := []struct {
		name string
		in   SubmitInput
		msg  string
	}{
		{name: "no name", in: SubmitInput{Email: "a@b.co", Message: "hi"}, msg: "name is required"},
		{name: "no email", in: SubmitInput{Name: "Ana", Message: "hi"}, msg: "email is required"},
		{name: "no message", in: SubmitInput{Name: "Ana", Email: "a@b.co", Message: "   "}, msg: "message is required"},
		{name: "bad email", in: SubmitInput{Name: "Ana", Email: "not-an-email", Message: "hi"}, msg: "email is not a valid address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(BookingRepoMock)
			uc := NewBookingUseCase(repo, new(PublisherMock), logger.NewNop())

			_, err := uc.Submit(context.Background(), tc.in)
			require.ErrorIs(t, err, apperror.ErrInvalidInput)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.msg, appErr.Message)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_PersistsAndPublishes(t *testing.T) {
	repo := new(BookingRepoMock)
	pub := new(PublisherMock)
	uc := NewBookingUseCase(repo, pub, logger.NewNop())
	city := "Lisbon"

	repo.On("Save", mock.Anything, mock.MatchedBy(func(i *booking.Inquiry) bool {
		return i.Name == "Ana" && i.City != nil && *i.City == "Lisbon"
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, service.EventBookingSubmitted, mock.Anything, mock.Anything).Once()

	inq, err := uc.Submit(context.Background(), SubmitInput{Name: " Ana ", Email: "ana@example.com", City: &city, Message: "Wedding in June"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", inq.Name)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}
