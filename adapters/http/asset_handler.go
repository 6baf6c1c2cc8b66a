package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/duo-site/internal/application/usecase/media"
	"github.com/khoahotran/duo-site/pkg/apperror"
	"github.com/khoahotran/duo-site/pkg/logger"
)

type AssetHandler struct {
	createAssetsUC *mediaUC.CreateAssetsUseCase
	driveUC        *mediaUC.DriveUseCase
	logger         logger.Logger
}

func NewAssetHandler(createUC *mediaUC.CreateAssetsUseCase, driveUC *mediaUC.DriveUseCase, log logger.Logger) *AssetHandler {
	return &AssetHandler{
		createAssetsUC: createUC,
		driveUC:        driveUC,
		logger:         log,
	}
}

func (h *AssetHandler) CreateExternal(c *gin.Context) {
	var req CreateAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.createAssetsUC.Execute(c.Request.Context(), req.Assets)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

func (h *AssetHandler) CreateUploadcare(c *gin.Context) {
	var req UploadcareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.createAssetsUC.Execute(c.Request.Context(), mediaUC.UploadcareInputs(req.Files))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

func (h *AssetHandler) ListDriveFolder(c *gin.Context) {
	var req DriveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.driveUC.ListFolder(c.Request.Context(), req.Folder)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *AssetHandler) ImportDriveFiles(c *gin.Context) {
	var req mediaUC.ImportDriveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.driveUC.Import(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

func (h *AssetHandler) CheckDriveFile(c *gin.Context) {
	var req DriveCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("'file_id' is required", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessible": h.driveUC.CheckAccess(c.Request.Context(), req.FileID)})
}

// ProbeDriveFile answers the accessibility probe issued by rendered pages.
func (h *AssetHandler) ProbeDriveFile(c *gin.Context) {
	fileID := strings.TrimSpace(c.Param("fileId"))
	if fileID == "" {
		c.Error(apperror.NewInvalidInput("file id is required", nil))
		return
	}
	c.Header("Cache-Control", "private, max-age=60")
	c.JSON(http.StatusOK, gin.H{"accessible": h.driveUC.CheckAccess(c.Request.Context(), fileID)})
}
