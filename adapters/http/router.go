package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/auth"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const maxUploadMemory = 32 << 20

// probeRateFactor widens the per-IP budget for Drive access checks, since a
// single media page fires one check per embedded Drive video.
const probeRateFactor = 4

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Assets     *AssetHandler
	Hero       *HeroHandler
	Events     *EventHandler
	Galleries  *GalleryHandler
	Products   *ProductHandler
	About      *AboutHandler
	Reorder    *ReorderHandler
	Commerce   *CommerceHandler
	Booking    *BookingHandler
	Revalidate *RevalidateHandler
	Site       *SiteHandler
}

type RouterConfig struct {
	JWT               *auth.JWTService
	AdminEmails       []string
	AllowedOrigins    []string
	RequestsPerMinute int
	Burst             int
	Metrics           *Metrics
	Logger            logger.Logger
}

func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Recovery(), RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg), ErrorMiddleware(cfg.Logger))

	limit := RateLimitMiddleware(cfg.RequestsPerMinute, cfg.Burst)
	probeLimit := RateLimitMiddleware(cfg.RequestsPerMinute*probeRateFactor, cfg.Burst*probeRateFactor)
	adminAPI := AdminAPIMiddleware(cfg.JWT, cfg.AdminEmails)

	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}
	router.StaticFS("/static", StaticFS())

	if h.Site != nil {
		for _, path := range site.PublicPaths {
			router.GET(path, h.Site.Page)
		}
		router.GET("/shop/success", h.Site.Static)
		router.GET("/login", h.Site.Static)
		router.GET("/admin", AdminPageMiddleware(cfg.JWT, cfg.AdminEmails), h.Site.Static)
	}

	api := router.Group("/api")
	{
		public := api.Group("/")
		{
			public.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
			public.GET("/events", h.Events.ListUpcoming)
			public.GET("/events/feed.xml", h.Events.Feed)
			public.GET("/products", h.Products.ListActive)
			public.GET("/media/drive/:fileId/access", probeLimit, h.Assets.ProbeDriveFile)

			public.POST("/auth/login", limit, h.Auth.Login)
			public.POST("/auth/logout", h.Auth.Logout)
			public.POST("/booking", limit, h.Booking.Submit)
			public.POST("/checkout", limit, h.Commerce.Checkout)
			public.POST("/webhooks/stripe", h.Commerce.StripeWebhook)
		}

		assets := api.Group("/assets", adminAPI)
		{
			assets.POST("/external", h.Assets.CreateExternal)
			assets.POST("/uploadcare", h.Assets.CreateUploadcare)
		}

		drive := api.Group("/integrations/google-drive", adminAPI)
		{
			drive.POST("/list", h.Assets.ListDriveFolder)
			drive.POST("/import", h.Assets.ImportDriveFiles)
			drive.POST("/check", h.Assets.CheckDriveFile)
		}

		api.POST("/revalidate", adminAPI, h.Revalidate.Revalidate)

		admin := api.Group("/admin", adminAPI)
		{
			admin.GET("/hero/:page", h.Hero.Get)
			admin.PUT("/hero/:page", h.Hero.Save)
			admin.POST("/hero/:page/upload", h.Hero.Upload)

			admin.GET("/events", h.Events.ListAll)
			admin.POST("/events", h.Events.Save)
			admin.DELETE("/events", h.Events.Delete)
			admin.POST("/events/:id/move", h.Reorder.Move(ordering.TableEvents))

			admin.GET("/galleries", h.Galleries.List)
			admin.POST("/galleries", h.Galleries.Save)
			admin.DELETE("/galleries/:id", h.Galleries.Delete)
			admin.POST("/galleries/:id/items", h.Galleries.AddItem)
			admin.POST("/galleries/:id/upload", h.Galleries.UploadItem)
			admin.POST("/galleries/:id/move", h.Reorder.Move(ordering.TableGalleries))
			admin.DELETE("/gallery-items/:id", h.Galleries.DeleteItem)
			admin.POST("/gallery-items/:id/move", h.Reorder.Move(ordering.TableGalleryMedia))

			admin.GET("/products", h.Products.ListAll)
			admin.POST("/products", h.Products.Create)
			admin.PUT("/products/:id", h.Products.Update)
			admin.DELETE("/products/:id", h.Products.Delete)
			admin.POST("/products/:id/images", h.Products.UploadImage)
			admin.POST("/products/:id/move", h.Reorder.Move(ordering.TableProducts))
			admin.DELETE("/product-images/:id", h.Products.DeleteImage)
			admin.POST("/product-images/:id/move", h.Reorder.Move(ordering.TableProductImages))

			admin.GET("/about", h.About.Get)
			admin.PUT("/about", h.About.SaveProfile)
			admin.POST("/about/photo", h.About.UploadPhoto)
			admin.POST("/timeline", h.About.CreateEntry)
			admin.PUT("/timeline/:id", h.About.UpdateEntry)
			admin.DELETE("/timeline/:id", h.About.DeleteEntry)
			admin.POST("/timeline/:id/move", h.Reorder.Move(ordering.TableTimeline))

			admin.GET("/orders", h.Commerce.ListOrders)
			admin.GET("/bookings", h.Booking.List)
		}
	}

	return router
}
