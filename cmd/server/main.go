package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/adapters/drive"
	"github.com/khoahotran/duo-site/adapters/event"
	httpAdapter "github.com/khoahotran/duo-site/adapters/http"
	"github.com/khoahotran/duo-site/adapters/media_storage"
	"github.com/khoahotran/duo-site/adapters/payment"
	"github.com/khoahotran/duo-site/adapters/persistence"
	"github.com/khoahotran/duo-site/internal/application/service"
	aboutUC "github.com/khoahotran/duo-site/internal/application/usecase/about"
	authUC "github.com/khoahotran/duo-site/internal/application/usecase/auth"
	bookingUC "github.com/khoahotran/duo-site/internal/application/usecase/booking"
	checkoutUC "github.com/khoahotran/duo-site/internal/application/usecase/checkout"
	eventUC "github.com/khoahotran/duo-site/internal/application/usecase/event"
	galleryUC "github.com/khoahotran/duo-site/internal/application/usecase/gallery"
	heroUC "github.com/khoahotran/duo-site/internal/application/usecase/hero"
	mediaUC "github.com/khoahotran/duo-site/internal/application/usecase/media"
	productUC "github.com/khoahotran/duo-site/internal/application/usecase/product"
	"github.com/khoahotran/duo-site/internal/application/usecase/reorder"
	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/pkg/auth"
	"github.com/khoahotran/duo-site/pkg/logger"
	"github.com/khoahotran/duo-site/pkg/tracing"
)

// driveCheckWait bounds how long a cache miss waits on Drive access checks.
const driveCheckWait = 1500 * time.Millisecond

func main() {
	fmt.Println("Start Duo Site Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot load config: %v", err))
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, "duo-site-api")
	defer appLogger.Sync()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "duo-site-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var pageCache service.PageCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		pageCache = persistence.NewRedisPageCache(redisClient, appLogger)
	} else {
		appLogger.Info("Redis not configured, caching public pages in memory.")
		pageCache = persistence.NewMemoryPageCache()
	}

	publisher := event.NewKafkaPublisher(cfg, appLogger)
	if c, ok := publisher.(io.Closer); ok {
		defer c.Close()
	}

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	driveClient, err := drive.NewDriveClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Google Drive client", err)
	}
	payments, err := payment.NewStripeAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Stripe", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	assetRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)
	heroRepo := persistence.NewPostgresHeroRepo(dbPool, appLogger)
	eventRepo := persistence.NewPostgresEventRepo(dbPool, appLogger)
	galleryRepo := persistence.NewPostgresGalleryRepo(dbPool, appLogger)
	productRepo := persistence.NewPostgresProductRepo(dbPool, appLogger)
	aboutRepo := persistence.NewPostgresAboutRepo(dbPool, appLogger)
	orderRepo := persistence.NewPostgresOrderRepo(dbPool, appLogger)
	bookingRepo := persistence.NewPostgresBookingRepo(dbPool, appLogger)
	orderingRepo := persistence.NewPostgresOrderingRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	revalidateUseCase := site.NewRevalidateUseCase(pageCache, appLogger)
	uploadUseCase := mediaUC.NewUploadMediaUseCase(uploader, appLogger)
	resolveUseCase := mediaUC.NewResolveMediaUseCase(assetRepo, appLogger)
	createAssetsUseCase := mediaUC.NewCreateAssetsUseCase(assetRepo, publisher, appLogger)
	driveUseCase := mediaUC.NewDriveUseCase(driveClient, createAssetsUseCase, appLogger)

	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, cfg.Auth.AdminEmails, appLogger)
	heroUseCase := heroUC.NewHeroUseCase(heroRepo, uploadUseCase, revalidateUseCase, appLogger)
	eventUseCase := eventUC.NewEventUseCase(eventRepo, orderingRepo, revalidateUseCase, appLogger)
	galleryUseCase := galleryUC.NewGalleryUseCase(galleryRepo, orderingRepo, uploadUseCase, revalidateUseCase, appLogger)
	productUseCase := productUC.NewProductUseCase(productRepo, orderingRepo, uploadUseCase, revalidateUseCase, appLogger)
	aboutUseCase := aboutUC.NewAboutUseCase(aboutRepo, orderingRepo, uploadUseCase, revalidateUseCase, appLogger)
	moveUseCase := reorder.NewMoveUseCase(orderingRepo, revalidateUseCase, appLogger)
	bookingUseCase := bookingUC.NewBookingUseCase(bookingRepo, publisher, appLogger)
	checkoutUseCase := checkoutUC.NewCreateCheckoutUseCase(payments, appLogger)
	webhookUseCase := checkoutUC.NewHandleWebhookUseCase(payments, orderRepo, publisher, appLogger)
	listOrdersUseCase := checkoutUC.NewListOrdersUseCase(orderRepo)
	pagesUseCase := site.NewPagesUseCase(heroRepo, eventUseCase, galleryRepo, productRepo, aboutRepo, resolveUseCase, appLogger)
	if driveClient != nil {
		pagesUseCase.WithAccessCheck(driveUseCase, driveCheckWait)
	}

	// HTTP Handlers
	siteHandler, err := httpAdapter.NewSiteHandler(pagesUseCase, pageCache, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to parse page templates", err)
	}
	handlers := httpAdapter.Handlers{
		Auth:       httpAdapter.NewAuthHandler(loginUseCase, jwtSvc, cfg.Auth.CookieSecure),
		Assets:     httpAdapter.NewAssetHandler(createAssetsUseCase, driveUseCase, appLogger),
		Hero:       httpAdapter.NewHeroHandler(heroUseCase),
		Events:     httpAdapter.NewEventHandler(eventUseCase, cfg.App.BaseURL, appLogger),
		Galleries:  httpAdapter.NewGalleryHandler(galleryUseCase),
		Products:   httpAdapter.NewProductHandler(productUseCase),
		About:      httpAdapter.NewAboutHandler(aboutUseCase),
		Reorder:    httpAdapter.NewReorderHandler(moveUseCase),
		Commerce:   httpAdapter.NewCommerceHandler(checkoutUseCase, webhookUseCase, listOrdersUseCase),
		Booking:    httpAdapter.NewBookingHandler(bookingUseCase),
		Revalidate: httpAdapter.NewRevalidateHandler(revalidateUseCase),
		Site:       siteHandler,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := httpAdapter.NewMetrics(registry)
	if err != nil {
		appLogger.Fatal("Failed to register metrics", err)
	}

	var origins []string
	if cfg.App.BaseURL != "" {
		origins = []string{strings.TrimRight(cfg.App.BaseURL, "/")}
	}
	router := httpAdapter.NewRouter(handlers, httpAdapter.RouterConfig{
		JWT:               jwtSvc,
		AdminEmails:       cfg.Auth.AdminEmails,
		AllowedOrigins:    origins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		Metrics:           metrics,
		Logger:            appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
