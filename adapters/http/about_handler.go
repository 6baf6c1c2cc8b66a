package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	aboutUC "github.com/khoahotran/duo-site/internal/application/usecase/about"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type AboutHandler struct {
	aboutUC *aboutUC.AboutUseCase
}

func NewAboutHandler(uc *aboutUC.AboutUseCase) *AboutHandler {
	return &AboutHandler{aboutUC: uc}
}

func (h *AboutHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	profile, err := h.aboutUC.GetProfile(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	timeline, err := h.aboutUC.ListTimeline(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "timeline": timeline})
}

func (h *AboutHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	profile, err := h.aboutUC.SaveProfile(c.Request.Context(), aboutUC.ProfileInput{
		Bio:          req.Bio,
		PressBio:     req.PressBio,
		ContactEmail: blankToNil(req.ContactEmail),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AboutHandler) UploadPhoto(c *gin.Context) {
	upload, file, err := formUpload(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	profile, err := h.aboutUC.UploadPhoto(c.Request.Context(), upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (r TimelineRequest) toInput() (aboutUC.TimelineInput, error) {
	assetID, err := optionalUUID("external_asset_id", r.ExternalAssetID)
	if err != nil {
		return aboutUC.TimelineInput{}, err
	}
	return aboutUC.TimelineInput{
		Year:            r.Year,
		Title:           r.Title,
		Description:     r.Description,
		ImageURL:        blankToNil(r.ImageURL),
		ExternalAssetID: assetID,
	}, nil
}

func (h *AboutHandler) CreateEntry(c *gin.Context) {
	var req TimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.Error(err)
		return
	}
	entry, err := h.aboutUC.CreateEntry(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *AboutHandler) UpdateEntry(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req TimelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.Error(err)
		return
	}
	entry, err := h.aboutUC.UpdateEntry(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *AboutHandler) DeleteEntry(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.aboutUC.DeleteEntry(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
