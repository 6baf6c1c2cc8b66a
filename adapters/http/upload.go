package http

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

// formUpload opens the multipart "file" field. The caller closes the file.
func formUpload(c *gin.Context) (mediaUC.UploadFile, multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return mediaUC.UploadFile{}, nil, apperror.NewInvalidInput("'file' is required", err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return mediaUC.UploadFile{}, nil, apperror.NewInternal("failed to open file", err)
	}
	return mediaUC.UploadFile{
		Reader:      file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, file, nil
}
