package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	heroUC "github.com/khoahotran/duo-site/internal/application/usecase/hero"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type HeroHandler struct {
	heroUC *heroUC.HeroUseCase
}

func NewHeroHandler(uc *heroUC.HeroUseCase) *HeroHandler {
	return &HeroHandler{heroUC: uc}
}

func (h *HeroHandler) Get(c *gin.Context) {
	section, err := h.heroUC.Get(c.Request.Context(), c.Param("page"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *HeroHandler) Save(c *gin.Context) {
	var req SaveHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	assetID, err := optionalUUID("external_asset_id", req.ExternalAssetID)
	if err != nil {
		c.Error(err)
		return
	}

	section, err := h.heroUC.Save(c.Request.Context(), heroUC.SaveHeroInput{
		Page:            c.Param("page"),
		Headline:        req.Headline,
		Subheadline:     req.Subheadline,
		CTALabel:        blankToNil(req.CTALabel),
		CTAURL:          blankToNil(req.CTAURL),
		MediaURL:        blankToNil(req.MediaURL),
		ExternalAssetID: assetID,
		MediaType:       req.MediaType,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *HeroHandler) Upload(c *gin.Context) {
	upload, file, err := formUpload(c)
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	section, err := h.heroUC.UploadMedia(c.Request.Context(), c.Param("page"), upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, section)
}
