package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/duo-site/internal/application/usecase/reorder"
	"github.com/khoahotran/duo-site/internal/domain/ordering"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

type ReorderHandler struct {
	moveUC *reorder.MoveUseCase
}

func NewReorderHandler(uc *reorder.MoveUseCase) *ReorderHandler {
	return &ReorderHandler{moveUC: uc}
}

// Move returns a handler that moves the :id row of table one step up or down.
func (h *ReorderHandler) Move(table ordering.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuidParam(c, "id")
		if err != nil {
			c.Error(err)
			return
		}
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid request data", err))
			return
		}

		output, err := h.moveUC.Execute(c.Request.Context(), reorder.MoveInput{
			Table:     table,
			ID:        id,
			Direction: req.Direction,
		})
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, output)
	}
}
