package drive

import (
	"context"
	"fmt"
	"strings"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/config"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/logger"
)

const listFields = "files(id, name, mimeType, thumbnailLink, webViewLink, size)"

type driveClient struct {
	files  *drivev3.FilesService
	logger logger.Logger
}

// NewDriveClient builds a read-only Drive client from the service-account
// JSON key. It returns nil, nil when no key is configured.
func NewDriveClient(ctx context.Context, cfg config.Config, log logger.Logger) (service.DriveClient, error) {
	if strings.TrimSpace(cfg.GoogleDrive.ServiceAccountJSON) == "" {
		log.Info("Google Drive credentials not configured, folder import is disabled.")
		return nil, nil
	}
	c, err := newDriveClient(ctx, log,
		option.WithCredentialsJSON([]byte(cfg.GoogleDrive.ServiceAccountJSON)),
		option.WithScopes(drivev3.DriveReadonlyScope),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newDriveClient(ctx context.Context, log logger.Logger, opts ...option.ClientOption) (*driveClient, error) {
	srv, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot init google drive: %w", err)
	}
	log.Info("Connect Google Drive successfully.")
	return &driveClient{files: srv.Files, logger: log}, nil
}

// folderQuery selects non-trashed children of folderID with an allowed MIME type.
func folderQuery(folderID string) string {
	mimes := make([]string, len(media.DriveAllowedMimeTypes))
	for i, m := range media.DriveAllowedMimeTypes {
		mimes[i] = fmt.Sprintf("mimeType = '%s'", m)
	}
	escaped := strings.ReplaceAll(folderID, `'`, `\'`)
	return fmt.Sprintf("'%s' in parents and trashed = false and (%s)", escaped, strings.Join(mimes, " or "))
}

func (c *driveClient) ListFolder(ctx context.Context, folderID string) ([]service.DriveFile, error) {
	list, err := c.files.List().
		Q(folderQuery(folderID)).
		Fields("nextPageToken", listFields).
		OrderBy("name").
		PageSize(media.DriveFolderPageSize()).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	files := make([]service.DriveFile, 0, len(list.Files))
	for _, f := range list.Files {
		df := service.DriveFile{ID: f.Id, Name: f.Name, MimeType: f.MimeType}
		if f.ThumbnailLink != "" {
			thumb := f.ThumbnailLink
			df.ThumbnailURL = &thumb
		}
		if f.WebViewLink != "" {
			link := f.WebViewLink
			df.WebViewLink = &link
		}
		if f.Size > 0 {
			size := f.Size
			df.SizeBytes = &size
		}
		files = append(files, df)
	}
	return files, nil
}

// CheckAccess treats any metadata error, including not found, as inaccessible.
func (c *driveClient) CheckAccess(ctx context.Context, fileID string) bool {
	_, err := c.files.Get(fileID).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		c.logger.Debug("drive file not accessible", zap.String("file_id", fileID), zap.Error(err))
		return false
	}
	return true
}
