package backup

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const backupFolder = "backups/database"

var tracer = otel.Tracer("backup_usecase")

// DumpFunc produces a database dump in pg_dump custom format.
type DumpFunc func(ctx context.Context) ([]byte, error)

// PgDump shells out to pg_dump for dsn.
func PgDump(dsn string) DumpFunc {
	return func(ctx context.Context) ([]byte, error) {
		cmd := exec.CommandContext(ctx, "pg_dump", "--dbname="+dsn, "--format=c")
		var out, stderr bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("pg_dump: %w: %s", err, stderr.String())
		}
		return out.Bytes(), nil
	}
}

// BackupUseCase dumps the content database and stores it next to the
// site's media in object storage.
type BackupUseCase struct {
	dump     DumpFunc
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

func NewBackupUseCase(dump DumpFunc, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		dump:     dump,
		uploader: uploader,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type BackupOutput struct {
	URL      string
	PublicID string
	Bytes    int
}

func (uc *BackupUseCase) Execute(ctx context.Context) (*BackupOutput, error) {
	ctx, span := tracer.Start(ctx, "BackupDatabase")
	defer span.End()

	uc.logger.Info("Starting database backup...")
	data, err := uc.dump(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("database dump failed", err)
	}

	publicID := fmt.Sprintf("%s/backup-%s.dump", backupFolder, uc.now().Format("2006-01-02_15-04-05"))
	url, err := uc.uploader.Upload(ctx, bytes.NewReader(data), backupFolder, publicID)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewUpstream("Cloudinary", "upload "+publicID, err)
	}

	uc.logger.Info("Database backup completed and uploaded successfully",
		zap.String("url", url),
		zap.String("public_id", publicID),
		zap.Int("bytes", len(data)),
	)
	return &BackupOutput{URL: url, PublicID: publicID, Bytes: len(data)}, nil
}

// RunEvery backs up once per interval until ctx is done. Failures are logged
// and the next tick tries again.
func (uc *BackupUseCase) RunEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				uc.logger.Error("Scheduled backup failed", err)
			}
		}
	}
}
