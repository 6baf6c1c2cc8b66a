package service

import "context"

// DriveFile is one entry of a Google Drive folder listing.
type DriveFile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MimeType     string  `json:"mime_type"`
	ThumbnailURL *string `json:"thumbnail_url"`
	WebViewLink  *string `json:"web_view_link"`
	SizeBytes    *int64  `json:"size_bytes"`
}

type DriveClient interface {
	// ListFolder returns the first page of image/video files in a folder,
	// sorted by name.
	ListFolder(ctx context.Context, folderID string) ([]DriveFile, error)
	// CheckAccess reports whether the file metadata can be read.
	CheckAccess(ctx context.Context, fileID string) bool
}
