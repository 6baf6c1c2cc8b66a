package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	bookingUC "github.com/khoahotran/duo-site/internal/application/usecase/booking"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type BookingHandler struct {
	bookingUC *bookingUC.BookingUseCase
}

func NewBookingHandler(uc *bookingUC.BookingUseCase) *BookingHandler {
	return &BookingHandler{bookingUC: uc}
}

func (h *BookingHandler) Submit(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	var eventDate *time.Time
	if req.EventDate != nil && strings.TrimSpace(*req.EventDate) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(*req.EventDate))
		if err != nil {
			c.Error(apperror.NewInvalidInput("event_date must be YYYY-MM-DD", err))
			return
		}
		eventDate = &d
	}

	inquiry, err := h.bookingUC.Submit(c.Request.Context(), bookingUC.SubmitInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     blankToNil(req.Phone),
		EventDate: eventDate,
		Venue:     blankToNil(req.Venue),
		City:      blankToNil(req.City),
		Budget:    blankToNil(req.Budget),
		Message:   req.Message,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": inquiry.ID})
}

func (h *BookingHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	inquiries, err := h.bookingUC.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inquiries)
}
