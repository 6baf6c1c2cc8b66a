package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/adapters/drive"
	"github.com/khoahotran/duo-site/adapters/event"
	"github.com/khoahotran/duo-site/adapters/media_storage"
	"github.com/khoahotran/duo-site/adapters/persistence"
	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/application/usecase/backup"
	mediaUC "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/internal/render"
	"github.com/khoahotran/duo-site/pkg/logger"
	"github.com/khoahotran/duo-site/pkg/tracing"
)

func main() {
	fmt.Println("Starting Duo Site Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot load config: %v", err))
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, "duo-site-worker")
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "duo-site-worker")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer shutdownTracing(context.Background())

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	driveClient, err := drive.NewDriveClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Google Drive client", err)
	}

	assetRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)
	var checker render.DriveAccessChecker
	if driveClient != nil {
		checker = driveClient
	}
	auditUseCase := mediaUC.NewAuditDriveAccessUseCase(assetRepo, checker, appLogger)

	consumer, err := event.NewKafkaConsumer(cfg, "duo-site-worker", appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	consumer.Handle(service.EventAssetsImported, func(ctx context.Context, msg event.Message) error {
		var ids []string
		if err := json.Unmarshal(msg.Payload, &ids); err != nil {
			appLogger.Warn("Skipping asset event with unexpected payload", zap.Error(err))
			return nil
		}
		out, err := auditUseCase.Execute(ctx, ids)
		if err != nil {
			return err
		}
		appLogger.Info("Drive import audited",
			zap.Int("checked", out.Checked),
			zap.Int("inaccessible", len(out.Inaccessible)),
		)
		return nil
	})
	consumer.Handle(service.EventBookingSubmitted, func(_ context.Context, msg event.Message) error {
		appLogger.Info("New booking inquiry", zap.String("inquiry_id", msg.Key), zap.Time("at", msg.OccurredAt))
		return nil
	})
	consumer.Handle(service.EventOrderPaid, func(_ context.Context, msg event.Message) error {
		appLogger.Info("Order paid", zap.String("order_id", msg.Key), zap.Time("at", msg.OccurredAt))
		return nil
	})

	if cfg.Backup.Interval > 0 {
		uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
		backupUseCase := backup.NewBackupUseCase(backup.PgDump(cfg.DB.DSN), uploader, appLogger)
		go backupUseCase.RunEvery(ctx, cfg.Backup.Interval)
		appLogger.Info("Scheduled database backups", zap.Duration("interval", cfg.Backup.Interval))
	}

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker stopped")
}
