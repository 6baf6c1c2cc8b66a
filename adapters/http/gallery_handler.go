package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	galleryUC "github.com/khoahotran/duo-site/internal/application/usecase/gallery"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type GalleryHandler struct {
	galleryUC *galleryUC.GalleryUseCase
}

func NewGalleryHandler(uc *galleryUC.GalleryUseCase) *GalleryHandler {
	return &GalleryHandler{galleryUC: uc}
}

func (h *GalleryHandler) List(c *gin.Context) {
	galleries, err := h.galleryUC.List(c.Request.Context(), false)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, galleries)
}

func (h *GalleryHandler) Save(c *gin.Context) {
	var req SaveGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := optionalUUID("id", req.ID)
	if err != nil {
		c.Error(err)
		return
	}

	g, err := h.galleryUC.Save(c.Request.Context(), galleryUC.SaveGalleryInput{
		ID:          id,
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.galleryUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GalleryHandler) AddItem(c *gin.Context) {
	galleryID, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req AddGalleryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	assetID, err := optionalUUID("external_asset_id", req.ExternalAssetID)
	if err != nil {
		c.Error(err)
		return
	}

	item, err := h.galleryUC.AddItem(c.Request.Context(), galleryUC.AddItemInput{
		GalleryID:       galleryID,
		MediaURL:        blankToNil(req.MediaURL),
		ExternalAssetID: assetID,
		MediaType:       req.MediaType,
		Caption:         req.Caption,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *GalleryHandler) UploadItem(c *gin.Context) {
	galleryID, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	upload, file, err := formUpload(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	item, err := h.galleryUC.UploadItem(c.Request.Context(), galleryID, c.PostForm("caption"), upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *GalleryHandler) DeleteItem(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.galleryUC.DeleteItem(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
