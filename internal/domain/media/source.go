package media

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	driveHost           = "drive.google.com"
	driveImageTemplate  = "https://drive.google.com/uc?export=view&id=%s"
	driveVideoTemplate  = "https://drive.google.com/file/d/%s/preview"
	driveThumbTemplate  = "https://drive.google.com/thumbnail?id=%s&sz=w640"
	driveFolderPageSize = 100
)

// DriveAllowedMimeTypes is the exact set of files offered from a Drive folder.
var DriveAllowedMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/jpg",
	"video/mp4",
	"video/quicktime",
	"video/webm",
}

// DriveFolderPageSize caps a folder listing; only the first page is read.
func DriveFolderPageSize() int64 { return driveFolderPageSize }

func DriveImageURL(fileID string) string { return fmt.Sprintf(driveImageTemplate, fileID) }
func DriveVideoURL(fileID string) string { return fmt.Sprintf(driveVideoTemplate, fileID) }
func DriveThumbnailURL(fileID string) string {
	return fmt.Sprintf(driveThumbTemplate, fileID)
}

// IsDriveURL reports whether raw points at drive.google.com.
func IsDriveURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), driveHost)
}

// DriveFileIDFromURL extracts the file id from the two URL shapes the Drive
// resolver produces. ok is false for anything else.
func DriveFileIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Hostname(), driveHost) {
		return "", false
	}
	if id := u.Query().Get("id"); id != "" {
		return id, true
	}
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}
	return "", false
}

var (
	driveFilePath     = regexp.MustCompile(`^/file/d/([A-Za-z0-9_-]+)`)
	driveFolderPath   = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)
	driveBareFolderID = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)
)

// ParseDriveFolderID accepts ".../folders/<id>", ".../drive/u/<n>/folders/<id>"
// or a bare id of at least 20 characters. Any other input is rejected.
func ParseDriveFolderID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := driveFolderPath.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if driveBareFolderID.MatchString(input) {
		return input, nil
	}
	return "", ErrInvalidFolderURL
}

// Source is the closed set of places a media file can live.
// Exactly one of DirectSource, DriveSource or UploadcareSource.
type Source interface {
	isSource()
}

type DirectSource struct {
	URL string
}

type DriveSource struct {
	AssetID      uuid.UUID
	FileID       string
	MimeType     *string
	ThumbnailURL *string
}

type UploadcareSource struct {
	AssetID      uuid.UUID
	PreviewURL   *string
	ThumbnailURL *string
	MimeType     *string
}

func (DirectSource) isSource()     {}
func (DriveSource) isSource()      {}
func (UploadcareSource) isSource() {}

// SourceOf turns a stored asset row into its variant.
func SourceOf(a *ExternalAsset) Source {
	switch a.Provider {
	case ProviderGoogleDrive:
		return DriveSource{AssetID: a.ID, FileID: a.FileID, MimeType: a.MimeType, ThumbnailURL: a.ThumbnailURL}
	case ProviderUploadcare:
		return UploadcareSource{AssetID: a.ID, PreviewURL: a.PreviewURL, ThumbnailURL: a.ThumbnailURL, MimeType: a.MimeType}
	}
	return nil
}

// ResolveSource maps a source to a displayable URL. A nil result means the
// source carries nothing renderable and the caller should fall through.
func ResolveSource(src Source) *Resolved {
	switch s := src.(type) {
	case nil:
		return nil
	case DirectSource:
		if strings.TrimSpace(s.URL) == "" {
			return nil
		}
		return &Resolved{URL: s.URL, IsExternal: false}
	case DriveSource:
		out := &Resolved{IsExternal: true, MimeType: s.MimeType}
		mime := ""
		if s.MimeType != nil {
			mime = *s.MimeType
		}
		if KindOf(mime) == KindVideo {
			out.URL = DriveVideoURL(s.FileID)
		} else {
			out.URL = DriveImageURL(s.FileID)
		}
		if s.ThumbnailURL != nil && *s.ThumbnailURL != "" {
			out.ThumbnailURL = s.ThumbnailURL
		} else {
			thumb := DriveThumbnailURL(s.FileID)
			out.ThumbnailURL = &thumb
		}
		return out
	case UploadcareSource:
		if s.PreviewURL == nil || *s.PreviewURL == "" {
			return nil
		}
		return &Resolved{URL: *s.PreviewURL, ThumbnailURL: s.ThumbnailURL, IsExternal: true, MimeType: s.MimeType}
	default:
		panic(fmt.Sprintf("media: unhandled source variant %T", src))
	}
}
