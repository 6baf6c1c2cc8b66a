package site

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const (
	PathHome     = "/"
	PathEvents   = "/events"
	PathMedia    = "/media"
	PathShop     = "/shop"
	PathBooking  = "/booking"
	PathAbout    = "/about"
	PathPressKit = "/press-kit"
)

// PublicPaths lists every cached public page.
var PublicPaths = []string{PathHome, PathEvents, PathMedia, PathShop, PathBooking, PathAbout, PathPressKit}

// HeroPath maps a hero page key to the page that shows it.
func HeroPath(page string) string {
	if page == "home" {
		return PathHome
	}
	return "/" + page
}

// RevalidateUseCase drops rendered pages from the page cache so the next
// request renders them from the store again.
type RevalidateUseCase struct {
	cache  service.PageCache
	logger logger.Logger
}

// NewRevalidateUseCase accepts a nil cache, in which case pages are never
// cached and revalidation is a no-op.
func NewRevalidateUseCase(c service.PageCache, log logger.Logger) *RevalidateUseCase {
	return &RevalidateUseCase{cache: c, logger: log}
}

func (uc *RevalidateUseCase) Execute(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		paths = PublicPaths
	}
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return apperror.NewInvalidInput("paths must start with /", nil)
		}
	}
	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Invalidate(ctx, paths...); err != nil {
		return apperror.NewUpstream("Page cache", "invalidate "+strings.Join(paths, ","), err)
	}
	uc.logger.Info("Pages revalidated", zap.Strings("paths", paths))
	return nil
}

// After is called once a content write succeeded. A cache failure is
// logged and never fails the write.
func (uc *RevalidateUseCase) After(ctx context.Context, paths ...string) {
	if err := uc.Execute(ctx, paths); err != nil {
		uc.logger.Error("Failed to revalidate pages", err, zap.Strings("paths", paths))
	}
}
