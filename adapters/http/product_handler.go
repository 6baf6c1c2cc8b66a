package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productUC "github.com/khoahotran/duo-site/internal/application/usecase/product"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type ProductHandler struct {
	productUC *productUC.ProductUseCase
}

func NewProductHandler(uc *productUC.ProductUseCase) *ProductHandler {
	return &ProductHandler{productUC: uc}
}

func (r ProductRequest) toInput() productUC.ProductInput {
	return productUC.ProductInput{
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description,
		PriceCents:    r.PriceCents,
		Currency:      r.Currency,
		StripePriceID: r.StripePriceID,
		IsActive:      r.IsActive,
	}
}

func (h *ProductHandler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *ProductHandler) ListActive(c *gin.Context) {
	h.list(c, true)
}

func (h *ProductHandler) list(c *gin.Context, activeOnly bool) {
	products, err := h.productUC.List(c.Request.Context(), activeOnly)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	p, err := h.productUC.Create(c.Request.Context(), req.toInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	p, err := h.productUC.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.productUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := uuidParam(c, "id")
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

	img, err := h.productUC.UploadImage(c.Request.Context(), id, c.PostForm("alt"), upload)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.productUC.DeleteImage(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
