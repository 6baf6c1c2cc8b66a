package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/duo-site/internal/application/usecase/site"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type RevalidateHandler struct {
	revalidateUC *site.RevalidateUseCase
}

func NewRevalidateHandler(uc *site.RevalidateUseCase) *RevalidateHandler {
	return &RevalidateHandler{revalidateUC: uc}
}

// Revalidate drops the given paths, or every public page when none are sent.
func (h *RevalidateHandler) Revalidate(c *gin.Context) {
	var req RevalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	paths := req.Paths
	if len(paths) == 0 {
		paths = site.PublicPaths
	}
	if err := h.revalidateUC.Execute(c.Request.Context(), paths); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revalidated": paths})
}
