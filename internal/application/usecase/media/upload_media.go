package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

// ObjectPath is a namespaced storage location, e.g. hero-media/home-1700000000000.jpg.
type ObjectPath struct {
	Folder string
	Name   string
	Ext    string
}

func (p ObjectPath) String() string {
	return fmt.Sprintf("%s/%s.%s", p.Folder, p.Name, p.Ext)
}

func HeroPath(page, ext string, at time.Time) ObjectPath {
	return ObjectPath{Folder: "hero-media", Name: fmt.Sprintf("%s-%d", page, at.UnixMilli()), Ext: ext}
}

func AboutPhotoPath(ext string, at time.Time) ObjectPath {
	return ObjectPath{Folder: "about-photos", Name: fmt.Sprintf("%d", at.UnixMilli()), Ext: ext}
}

func ProductImagePath(productID uuid.UUID, ext string, at time.Time) ObjectPath {
	return ObjectPath{Folder: "product-images", Name: fmt.Sprintf("%s-%d", productID, at.UnixMilli()), Ext: ext}
}

func GalleryMediaPath(galleryID uuid.UUID, ext string, at time.Time) ObjectPath {
	return ObjectPath{Folder: "gallery-media/" + galleryID.String(), Name: fmt.Sprintf("%d", at.UnixMilli()), Ext: ext}
}

// FileExt returns the lowercased extension of filename without the dot,
// "jpg" for jpeg variants and "bin" when there is none.
func FileExt(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "":
		return "bin"
	case "jpeg":
		return "jpg"
	}
	return ext
}

type UploadFile struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type UploadOutput struct {
	URL       string
	Path      string
	MediaType media.Kind
}

// UploadMediaUseCase pushes an admin-selected file to object storage.
type UploadMediaUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

func NewUploadMediaUseCase(u service.Uploader, log logger.Logger) *UploadMediaUseCase {
	return &UploadMediaUseCase{uploader: u, logger: log, now: func() time.Time { return time.Now().UTC() }}
}

// Now is the timestamp used for object naming.
func (uc *UploadMediaUseCase) Now() time.Time { return uc.now() }

// Execute uploads file to the location built by pathFor from the file
// extension and the current time.
func (uc *UploadMediaUseCase) Execute(ctx context.Context, file UploadFile, pathFor func(ext string, at time.Time) ObjectPath) (*UploadOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadMedia")
	defer span.End()

	if file.Reader == nil {
		return nil, apperror.NewInvalidInput("file is required", nil)
	}
	kind := media.KindOf(file.ContentType)
	if !strings.HasPrefix(file.ContentType, "image/") && kind != media.KindVideo {
		return nil, apperror.NewInvalidInput("only image or video files can be uploaded", nil)
	}

	path := pathFor(FileExt(file.Filename), uc.now())
	url, err := uc.uploader.Upload(ctx, file.Reader, path.Folder, path.Name)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload file to object storage", err, zap.String("path", path.String()))
		return nil, apperror.NewUpstream("Object storage", "upload "+path.String(), err)
	}

	uc.logger.Info("File uploaded", zap.String("path", path.String()), zap.Int64("size", file.Size))
	return &UploadOutput{URL: url, Path: path.String(), MediaType: kind}, nil
}
