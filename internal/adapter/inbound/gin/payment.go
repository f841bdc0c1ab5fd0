package gin

import (
	"io"
	"net/http"

	"github.com/carzone/server/internal/domain/payment"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/carzone/server/internal/shared/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds webhook payloads read into memory.
const maxWebhookBody = 1 << 20

// paymentHandler implements inbound.PaymentHttpPort.
type paymentHandler struct {
	paymentDomain payment.PaymentDomain
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(paymentDomain payment.PaymentDomain) inbound.PaymentHttpPort {
	return &paymentHandler{paymentDomain: paymentDomain}
}

// CreatePaymentIntent starts or resumes a card payment for an order.
//
//	@Summary		Create payment intent
//	@Description	Returns the client secret of a Stripe payment intent. An open intent is reused.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id				path		string	true	"Order ID"
//	@Param			Idempotency-Key	header		string	false	"Replay protection"
//	@Success		201				{object}	model.PaymentIntentResponse
//	@Failure		409				{object}	errors.ErrorResponse
//	@Failure		502				{object}	errors.ErrorResponse
//	@Router			/orders/{id}/payment-intent [post]
func (h *paymentHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.paymentDomain.CreatePaymentIntent(c.Request.Context(), userID, orderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ConfirmPayment checks the intent with the provider and marks the order
// paid only when the provider reports success.
//
//	@Summary	Confirm payment
//	@Tags		Payments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Order ID"
//	@Param		request	body		model.ConfirmPaymentRequest	true	"Payment intent"
//	@Success	200		{object}	model.Order
//	@Failure	400		{object}	errors.ErrorResponse
//	@Router		/orders/{id}/confirm-payment [post]
func (h *paymentHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ord, err := h.paymentDomain.ConfirmPayment(c.Request.Context(), userID, orderID, req.PaymentIntentID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ord)
}

// CreateAlipayPayment returns an Alipay web payment URL for an order.
//
//	@Summary	Create Alipay payment
//	@Tags		Payments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Order ID"
//	@Param		request	body		model.AlipayPaymentRequest	false	"Return URL"
//	@Success	201		{object}	model.PaymentIntentResponse
//	@Router		/orders/{id}/alipay [post]
func (h *paymentHandler) CreateAlipayPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.AlipayPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	resp, err := h.paymentDomain.CreateAlipayPayment(c.Request.Context(), userID, orderID, req.ReturnURL)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// webhookHandler implements inbound.WebhookHttpPort.
type webhookHandler struct {
	paymentDomain payment.PaymentDomain
}

// NewWebhookHandler creates a new webhook HTTP handler.
func NewWebhookHandler(paymentDomain payment.PaymentDomain) inbound.WebhookHttpPort {
	return &webhookHandler{paymentDomain: paymentDomain}
}

// HandleStripeWebhook verifies and applies a Stripe event.
//
//	@Summary	Stripe webhook
//	@Tags		Webhooks
//	@Accept		json
//	@Produce	json
//	@Param		Stripe-Signature	header		string	true	"Webhook signature"
//	@Success	200					{object}	map[string]bool
//	@Failure	400					{object}	errors.ErrorResponse
//	@Router		/webhooks/stripe [post]
func (h *webhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, ok := readWebhookBody(c)
	if !ok {
		return
	}

	if _, err := h.paymentDomain.HandleWebhook(c.Request.Context(), model.PaymentProviderStripe, payload, flattenHeaders(c.Request.Header)); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// HandleAlipayNotify answers with the plain-text acknowledgement Alipay
// expects. Anything else makes Alipay retry.
//
//	@Summary	Alipay notify
//	@Tags		Webhooks
//	@Accept		x-www-form-urlencoded
//	@Produce	plain
//	@Success	200	{string}	string	"success"
//	@Router		/webhooks/alipay [post]
func (h *webhookHandler) HandleAlipayNotify(c *gin.Context) {
	payload, ok := readWebhookBody(c)
	if !ok {
		return
	}

	ack, err := h.paymentDomain.HandleWebhook(c.Request.Context(), model.PaymentProviderAlipay, payload, flattenHeaders(c.Request.Header))
	if err != nil {
		logger.FromContext(c.Request.Context(), zap.L()).Warn("alipay notify rejected", zap.Error(err))
		c.String(toAppError(err).StatusCode, "fail")
		return
	}

	c.String(http.StatusOK, ack)
}

func readWebhookBody(c *gin.Context) ([]byte, bool) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		bindError(c, err)
		return nil, false
	}
	return payload, true
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}
