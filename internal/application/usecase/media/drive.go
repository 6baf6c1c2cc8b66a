package media

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/duo-site/internal/application/service"
	"github.com/khoahotran/duo-site/internal/domain/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

var errDriveNotConfigured = errors.New("google drive service account is not configured")

// DriveUseCase backs the Google Drive import flow of the admin panel.
type DriveUseCase struct {
	drive   service.DriveClient
	creator *CreateAssetsUseCase
	logger  logger.Logger
}

// NewDriveUseCase accepts a nil client when no service account is configured;
// every call then fails with an upstream error.
func NewDriveUseCase(d service.DriveClient, creator *CreateAssetsUseCase, log logger.Logger) *DriveUseCase {
	return &DriveUseCase{drive: d, creator: creator, logger: log}
}

type DriveFileView struct {
	service.DriveFile
	MediaType media.Kind `json:"media_type"`
}

type ListDriveFolderOutput struct {
	FolderID string          `json:"folder_id"`
	Files    []DriveFileView `json:"files"`
}

func (uc *DriveUseCase) ListFolder(ctx context.Context, folder string) (*ListDriveFolderOutput, error) {
	ctx, span := tracer.Start(ctx, "ListDriveFolder")
	defer span.End()

	folderID, err := media.ParseDriveFolderID(folder)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if uc.drive == nil {
		return nil, apperror.NewUpstream("Google Drive", "drive client not configured", errDriveNotConfigured)
	}

	files, err := uc.drive.ListFolder(ctx, folderID)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to list Drive folder", err, zap.String("folder_id", folderID))
		return nil, apperror.NewUpstream("Google Drive", "list folder "+folderID, err)
	}

	views := make([]DriveFileView, 0, len(files))
	for _, f := range files {
		views = append(views, DriveFileView{DriveFile: f, MediaType: media.KindOf(f.MimeType)})
	}
	return &ListDriveFolderOutput{FolderID: folderID, Files: views}, nil
}

type ImportDriveInput struct {
	Folder  string   `json:"folder"`
	FileIDs []string `json:"file_ids"`
}

// Import re-lists the folder and persists the selected files. Selecting a
// file that is not in the folder listing rejects the whole import.
func (uc *DriveUseCase) Import(ctx context.Context, in ImportDriveInput) (*CreateAssetsOutput, error) {
	if len(in.FileIDs) == 0 {
		return nil, apperror.NewInvalidInput("select at least one file", nil)
	}
	listing, err := uc.ListFolder(ctx, in.Folder)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]service.DriveFile, len(listing.Files))
	for _, f := range listing.Files {
		byID[f.ID] = f.DriveFile
	}

	folderID := listing.FolderID
	inputs := make([]AssetInput, 0, len(in.FileIDs))
	for _, id := range in.FileIDs {
		f, ok := byID[id]
		if !ok {
			return nil, apperror.NewInvalidInput("file "+id+" is not in the selected folder", nil)
		}
		mime, name := f.MimeType, f.Name
		inputs = append(inputs, AssetInput{
			Provider:       media.ProviderGoogleDrive,
			FileID:         f.ID,
			MimeType:       &mime,
			ThumbnailURL:   f.ThumbnailURL,
			SizeBytes:      f.SizeBytes,
			Name:           &name,
			WebViewLink:    f.WebViewLink,
			SourceFolderID: &folderID,
		})
	}
	return uc.creator.Execute(ctx, inputs)
}

// CheckAccess reports whether a Drive file is readable. It never fails: an
// unconfigured client or any upstream error counts as inaccessible.
func (uc *DriveUseCase) CheckAccess(ctx context.Context, fileID string) bool {
	if uc.drive == nil || fileID == "" {
		return false
	}
	return uc.drive.CheckAccess(ctx, fileID)
}
