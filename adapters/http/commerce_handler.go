package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/duo-site/internal/application/usecase/checkout"
	"github.com/khoahotran/duo-site/pkg/apperror"
)

const maxWebhookBody = 64 << 10

type CommerceHandler struct {
	checkoutUC *checkout.CreateCheckoutUseCase
	webhookUC  *checkout.HandleWebhookUseCase
	ordersUC   *checkout.ListOrdersUseCase
}

func NewCommerceHandler(checkoutUC *checkout.CreateCheckoutUseCase, webhookUC *checkout.HandleWebhookUseCase, ordersUC *checkout.ListOrdersUseCase) *CommerceHandler {
	return &CommerceHandler{
		checkoutUC: checkoutUC,
		webhookUC:  webhookUC,
		ordersUC:   ordersUC,
	}
}

func (h *CommerceHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	output, err := h.checkoutUC.Execute(c.Request.Context(), checkout.CreateCheckoutInput{Items: req.Items})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

// StripeWebhook reads the raw body; the signature covers the exact bytes.
func (h *CommerceHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Error(apperror.NewInvalidInput("failed to read webhook body", err))
		return
	}

	output, err := h.webhookUC.Execute(c.Request.Context(), checkout.HandleWebhookInput{
		Payload:   payload,
		Signature: c.GetHeader("Stripe-Signature"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *CommerceHandler) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	orders, err := h.ordersUC.Execute(c.Request.Context(), checkout.ListOrdersInput{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
