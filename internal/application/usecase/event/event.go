package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/event"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("event_usecase")

var eventPages = []string{site.PathHome, site.PathEvents}

type EventUseCase struct {
	repo      event.Repository
	orderRepo ordering.Repository
	revalid   *site.RevalidateUseCase
	logger    logger.Logger
	now       func() time.Time
}

func NewEventUseCase(r event.Repository, o ordering.Repository, rv *site.RevalidateUseCase, log logger.Logger) *EventUseCase {
	return &EventUseCase{repo: r, orderRepo: o, revalid: rv, logger: log, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *EventUseCase) ListAll(ctx context.Context) ([]*event.Event, error) {
	return uc.repo.List(ctx, event.ListFilter{})
}

// ListUpcoming returns published events that have not started yet.
func (uc *EventUseCase) ListUpcoming(ctx context.Context, limit int) ([]*event.Event, error) {
	return uc.repo.List(ctx, event.ListFilter{PublishedOnly: true, From: uc.now(), Limit: limit})
}

type SaveEventInput struct {
	ID              *uuid.UUID
	Title           string
	Venue           string
	City            string
	Country         string
	StartsAt        time.Time
	TicketURL       *string
	Description     string
	ImageURL        *string
	ExternalAssetID *uuid.UUID
	IsPublished     bool
}

// Save creates the event, or updates it when ID is set.
func (uc *EventUseCase) Save(ctx context.Context, in SaveEventInput) (*event.Event, error) {
	ctx, span := tracer.Start(ctx, "SaveEvent")
	defer span.End()

	var e *event.Event
	if in.ID != nil {
		found, err := uc.repo.FindByID(ctx, *in.ID)
		if err != nil {
			return nil, err
		}
		e = found
	} else {
		items, err := uc.orderRepo.ListItems(ctx, ordering.Scope{Table: ordering.TableEvents})
		if err != nil {
			return nil, err
		}
		e = &event.Event{ID: uuid.New(), DisplayOrder: ordering.Next(items), CreatedAt: uc.now()}
	}

	e.Title = strings.TrimSpace(in.Title)
	e.Venue = in.Venue
	e.City = in.City
	e.Country = in.Country
	e.StartsAt = in.StartsAt
	e.TicketURL = in.TicketURL
	e.Description = in.Description
	e.ImageURL = in.ImageURL
	e.ExternalAssetID = in.ExternalAssetID
	e.IsPublished = in.IsPublished
	e.UpdatedAt = uc.now()

	if err := e.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	save := uc.repo.Save
	if in.ID != nil {
		save = uc.repo.Update
	}
	if err := save(ctx, e); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.revalid.After(ctx, eventPages...)
	return e, nil
}

func (uc *EventUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Event deleted", zap.String("event_id", id.String()))
	uc.revalid.After(ctx, eventPages...)
	return nil
}

// Feed builds the RSS feed of upcoming shows.
func (uc *EventUseCase) Feed(ctx context.Context, baseURL string) (*feeds.Feed, error) {
	events, err := uc.ListUpcoming(ctx, 50)
	if err != nil {
		uc.logger.Error("Failed to list events for RSS", err)
		return nil, err
	}

	baseURL = strings.TrimRight(baseURL, "/")
	feed := &feeds.Feed{
		Title:       "Upcoming shows",
		Link:        &feeds.Link{Href: baseURL + site.PathEvents},
		Description: "Tour dates and live shows.",
		Created:     uc.now(),
	}

	for _, e := range events {
		link := baseURL + site.PathEvents + "#" + e.ID.String()
		if e.TicketURL != nil && *e.TicketURL != "" {
			link = *e.TicketURL
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          e.ID.String(),
			Title:       fmt.Sprintf("%s, %s", e.Title, placeOf(e)),
			Link:        &feeds.Link{Href: link},
			Description: e.Description,
			Created:     e.StartsAt,
		})
	}
	return feed, nil
}

func placeOf(e *event.Event) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Venue, e.City, e.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
