package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/pkg/logger"
)

//go:embed web/templates/*.html
var templateFS embed.FS

//go:embed web/static
var staticFS embed.FS

// StaticFS serves the site's scripts and styles under /static.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var pageTemplates = map[string]string{
	site.PathHome:     "home.html",
	site.PathEvents:   "events.html",
	site.PathMedia:    "media.html",
	site.PathShop:     "shop.html",
	site.PathBooking:  "booking.html",
	site.PathAbout:    "about.html",
	site.PathPressKit: "press_kit.html",
	"/shop/success":   "shop_success.html",
	"/login":          "login.html",
	"/admin":          "admin.html",
}

var pageTitles = map[string]string{
	site.PathHome:     "Home",
	site.PathEvents:   "Events",
	site.PathMedia:    "Media",
	site.PathShop:     "Shop",
	site.PathBooking:  "Booking",
	site.PathAbout:    "About",
	site.PathPressKit: "Press Kit",
	"/shop/success":   "Thank you",
	"/login":          "Sign in",
	"/admin":          "Admin",
}

var templateFuncs = template.FuncMap{
	"price": func(cents int64, currency string) string {
		return fmt.Sprintf("%.2f %s", float64(cents)/100, strings.ToUpper(currency))
	},
	"date": func(t time.Time) string {
		return t.Format("Mon, Jan 2 2006 · 15:04")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// parseTemplates builds one template set per page, each sharing layout.html.
func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pageTemplates))
	for path, file := range pageTemplates {
		t, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "web/templates/layout.html", "web/templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		out[path] = t
	}
	return out, nil
}

type viewData struct {
	Title string
	Path  string
	Page  *site.Page
	Year  int
}

type SiteHandler struct {
	pagesUC   *site.PagesUseCase
	cache     service.PageCache
	templates map[string]*template.Template
	logger    logger.Logger
}

// NewSiteHandler accepts a nil cache, in which case every request renders.
func NewSiteHandler(pagesUC *site.PagesUseCase, cache service.PageCache, log logger.Logger) (*SiteHandler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &SiteHandler{
		pagesUC:   pagesUC,
		cache:     cache,
		templates: templates,
		logger:    log,
	}, nil
}

// Page serves a cached public page. The route's full path is the cache key.
func (h *SiteHandler) Page(c *gin.Context) {
	path := c.FullPath()
	ctx := c.Request.Context()

	if h.cache != nil {
		if body, ok := h.cache.Get(ctx, path); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			return
		}
	}

	page, err := h.pagesUC.Build(ctx, path)
	if err != nil {
		c.Error(err)
		return
	}
	body, err := h.render(path, page)
	if err != nil {
		c.Error(err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, path, body); err != nil {
			h.logger.Warn("Failed to cache page", zap.String("path", path), zap.Error(err))
		}
	}
	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// Static serves a page with no store-backed content.
func (h *SiteHandler) Static(c *gin.Context) {
	body, err := h.render(c.FullPath(), nil)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (h *SiteHandler) render(path string, page *site.Page) ([]byte, error) {
	t, ok := h.templates[path]
	if !ok {
		return nil, fmt.Errorf("no template for %s", path)
	}
	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", viewData{
		Title: pageTitles[path],
		Path:  path,
		Page:  page,
		Year:  time.Now().Year(),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
