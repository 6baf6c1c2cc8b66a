package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	eventUC "github.com/khoahotran/duo-site/internal/application/usecase/event"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type EventHandler struct {
	eventUC *eventUC.EventUseCase
	baseURL string
	logger  logger.Logger
}

func NewEventHandler(uc *eventUC.EventUseCase, baseURL string, log logger.Logger) *EventHandler {
	return &EventHandler{eventUC: uc, baseURL: baseURL, logger: log}
}

func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.eventUC.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) ListUpcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	events, err := h.eventUC.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Save(c *gin.Context) {
	var req SaveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := optionalUUID("id", req.ID)
	if err != nil {
		c.Error(err)
		return
	}
	assetID, err := optionalUUID("external_asset_id", req.ExternalAssetID)
	if err != nil {
		c.Error(err)
		return
	}
	startsAt, err := parseEventTime("starts_at", req.StartsAt)
	if err != nil {
		c.Error(err)
		return
	}

	ev, err := h.eventUC.Save(c.Request.Context(), eventUC.SaveEventInput{
		ID:              id,
		Title:           req.Title,
		Venue:           req.Venue,
		City:            req.City,
		Country:         req.Country,
		StartsAt:        startsAt,
		TicketURL:       blankToNil(req.TicketURL),
		Description:     req.Description,
		ImageURL:        blankToNil(req.ImageURL),
		ExternalAssetID: assetID,
		IsPublished:     req.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}
	status := http.StatusCreated
	if id != nil {
		status = http.StatusOK
	}
	c.JSON(status, ev)
}

func (h *EventHandler) Delete(c *gin.Context) {
	var req IDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("'id' is required", err))
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid event id", err))
		return
	}
	if err := h.eventUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EventHandler) Feed(c *gin.Context) {
	feed, err := h.eventUC.Feed(c.Request.Context(), h.baseURL)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
