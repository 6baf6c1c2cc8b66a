package site

import (
	"context"
	"errors"
	"html/template"
	"time"

	"go.opentelemetry.io/otel"

	mediauc "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/domain/about"
	"github.com/khoahotran/duo-site/internal/domain/event"
	"github.com/khoahotran/duo-site/internal/domain/gallery"
	"github.com/khoahotran/duo-site/internal/domain/hero"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/internal/domain/product"
	"github.com/khoahotran/duo-site/internal/render"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var tracer = otel.Tracer("site_usecase")

const (
	placeholderHTML = template.HTML(`<div class="media-placeholder" aria-hidden="true"></div>`)
	unavailableHTML = template.HTML(`<div class="media-unavailable">This media is not available right now.</div>`)
	homeEventCount  = 3
)

// MediaView is a resolved reference ready for a template.
type MediaView struct {
	Resolved *media.Resolved
	HTML     template.HTML
}

type HeroView struct {
	Section *hero.Section
	Media   MediaView
}

type EventView struct {
	Event *event.Event
	Image MediaView
}

type GalleryItemView struct {
	Item  gallery.Item
	Media MediaView
}

type GalleryView struct {
	Gallery *gallery.Gallery
	Items   []GalleryItemView
}

type ProductView struct {
	Product *product.Product
	Images  []MediaView
}

type TimelineView struct {
	Entry *about.TimelineEntry
	Image MediaView
}

// Page is the data behind one public page. Unused sections stay empty.
type Page struct {
	Path      string
	Hero      *HeroView
	Events    []EventView
	Galleries []GalleryView
	Products  []ProductView
	Profile   *about.Profile
	Photo     MediaView
	Timeline  []TimelineView
}

// UpcomingEvents lists published events that have not started, soonest first.
type UpcomingEvents interface {
	ListUpcoming(ctx context.Context, limit int) ([]*event.Event, error)
}

type PagesUseCase struct {
	heroRepo    hero.Repository
	galleryRepo gallery.Repository
	productRepo product.Repository
	aboutRepo   about.Repository
	resolver    *mediauc.ResolveMediaUseCase
	events      UpcomingEvents
	logger      logger.Logger

	checker   render.DriveAccessChecker
	probeWait time.Duration
}

func NewPagesUseCase(
	h hero.Repository,
	e UpcomingEvents,
	g gallery.Repository,
	p product.Repository,
	a about.Repository,
	resolver *mediauc.ResolveMediaUseCase,
	log logger.Logger,
) *PagesUseCase {
	return &PagesUseCase{
		heroRepo:    h,
		galleryRepo: g,
		productRepo: p,
		aboutRepo:   a,
		resolver:    resolver,
		events:      e,
		logger:      log,
	}
}

// WithAccessCheck makes Drive videos run their accessibility check while the
// page is built. A page waits at most wait in total; checks still pending by
// then render optimistically and the browser repeats them.
func (uc *PagesUseCase) WithAccessCheck(checker render.DriveAccessChecker, wait time.Duration) *PagesUseCase {
	uc.checker = checker
	uc.probeWait = wait
	return uc
}

type settleKey struct{}

// Build assembles the page served at path. Unknown paths are not found.
func (uc *PagesUseCase) Build(ctx context.Context, path string) (*Page, error) {
	ctx, span := tracer.Start(ctx, "BuildPage")
	defer span.End()
	if uc.checker != nil {
		ctx = context.WithValue(ctx, settleKey{}, time.Now().Add(uc.probeWait))
	}

	page := &Page{Path: path}
	var err error
	switch path {
	case PathHome:
		err = uc.withHero(ctx, page, "home", func() error { return uc.withEvents(ctx, page, homeEventCount) })
	case PathEvents:
		err = uc.withHero(ctx, page, "events", func() error { return uc.withEvents(ctx, page, 0) })
	case PathMedia:
		err = uc.withHero(ctx, page, "media", func() error { return uc.withGalleries(ctx, page) })
	case PathShop:
		err = uc.withHero(ctx, page, "shop", func() error { return uc.withProducts(ctx, page) })
	case PathBooking:
		err = uc.withHero(ctx, page, "booking", nil)
	case PathAbout:
		err = uc.withHero(ctx, page, "about", func() error { return uc.withAbout(ctx, page) })
	case PathPressKit:
		err = uc.withAbout(ctx, page)
	default:
		return nil, apperror.NewNotFound("page", path)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return page, nil
}

func (uc *PagesUseCase) withHero(ctx context.Context, page *Page, key string, next func() error) error {
	s, err := uc.heroRepo.FindByPage(ctx, key)
	switch {
	case err == nil:
		page.Hero = &HeroView{Section: s, Media: uc.view(ctx, s.Media(), s.MediaType, s.Headline)}
	case !errors.Is(err, apperror.ErrNotFound):
		return err
	}
	if next == nil {
		return nil
	}
	return next()
}

func (uc *PagesUseCase) withEvents(ctx context.Context, page *Page, limit int) error {
	events, err := uc.events.ListUpcoming(ctx, limit)
	if err != nil {
		return err
	}
	for _, e := range events {
		page.Events = append(page.Events, EventView{Event: e, Image: uc.view(ctx, e.Media(), media.KindImage, e.Title)})
	}
	return nil
}

func (uc *PagesUseCase) withGalleries(ctx context.Context, page *Page) error {
	galleries, err := uc.galleryRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, g := range galleries {
		gv := GalleryView{Gallery: g}
		for _, it := range g.Items {
			gv.Items = append(gv.Items, GalleryItemView{Item: it, Media: uc.view(ctx, it.Media(), it.MediaType, it.Caption)})
		}
		page.Galleries = append(page.Galleries, gv)
	}
	return nil
}

func (uc *PagesUseCase) withProducts(ctx context.Context, page *Page) error {
	products, err := uc.productRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, p := range products {
		pv := ProductView{Product: p}
		for _, img := range p.Images {
			alt := img.Alt
			if alt == "" {
				alt = p.Name
			}
			pv.Images = append(pv.Images, uc.view(ctx, img.Media(), media.KindImage, alt))
		}
		page.Products = append(page.Products, pv)
	}
	return nil
}

func (uc *PagesUseCase) withAbout(ctx context.Context, page *Page) error {
	profile, err := uc.aboutRepo.GetProfile(ctx)
	if err != nil {
		return err
	}
	page.Profile = profile
	page.Photo = uc.view(ctx, media.Reference{DirectURL: profile.PhotoURL}, media.KindImage, "About us")

	entries, err := uc.aboutRepo.ListEntries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		page.Timeline = append(page.Timeline, TimelineView{Entry: e, Image: uc.view(ctx, e.Media(), media.KindImage, e.Title)})
	}
	return nil
}

// view resolves ref and renders it. The row's media type is used unless the
// external asset reports its own MIME type.
func (uc *PagesUseCase) view(ctx context.Context, ref media.Reference, kind media.Kind, alt string) MediaView {
	resolved := uc.resolver.Execute(ctx, ref)
	props := render.AssetProps{Alt: alt, MediaType: kind, Fallback: placeholderHTML, ErrorFallback: unavailableHTML}
	if resolved != nil {
		props.URL = resolved.URL
		if resolved.MimeType != nil && *resolved.MimeType != "" {
			props.MediaType = media.KindOf(*resolved.MimeType)
		}
	}
	asset := render.NewMediaAsset(ctx, props, uc.checker)
	awaitProbe(ctx, asset.Probe())
	return MediaView{Resolved: resolved, HTML: asset.HTML()}
}

// awaitProbe blocks until p resolves or the page's settle deadline passes.
func awaitProbe(ctx context.Context, p *render.EmbedProbe) {
	deadline, ok := ctx.Value(settleKey{}).(time.Time)
	if p == nil || !ok {
		return
	}
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case <-p.Done():
	case <-timer.C:
	case <-ctx.Done():
	}
}
