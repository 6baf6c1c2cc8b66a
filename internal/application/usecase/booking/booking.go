package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/booking"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("booking_usecase")

type BookingUseCase struct {
	repo      booking.Repository
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewBookingUseCase(r booking.Repository, p service.EventPublisher, log logger.Logger) *BookingUseCase {
	return &BookingUseCase{repo: r, publisher: p, logger: log}
}

type SubmitInput struct {
	Name      string
	Email     string
	Phone     *string
	EventDate *time.Time
	Venue     *string
	City      *string
	Budget    *string
	Message   string
}

func (uc *BookingUseCase) Submit(ctx context.Context, in SubmitInput) (*booking.Inquiry, error) {
	ctx, span := tracer.Start(ctx, "SubmitBooking")
	defer span.End()

	inq := &booking.Inquiry{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		EventDate: in.EventDate,
		Venue:     in.Venue,
		City:      in.City,
		Budget:    in.Budget,
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: time.Now().UTC(),
	}
	if msg := inq.Validate(); msg != "" {
		return nil, apperror.NewInvalidInput(msg, nil)
	}

	if err := uc.repo.Save(ctx, inq); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("Booking inquiry received", zap.String("inquiry_id", inq.ID.String()))
	uc.publisher.Publish(ctx, service.EventBookingSubmitted, inq.ID.String(), inq)
	return inq, nil
}

func (uc *BookingUseCase) List(ctx context.Context, limit, offset int) ([]*booking.Inquiry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repo.List(ctx, limit, offset)
}
