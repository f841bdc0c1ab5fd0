package inbound

import "github.com/gin-gonic/gin"

// PaymentHttpPort defines HTTP handler interface for order payments.
type PaymentHttpPort interface {
	// CreatePaymentIntent handles POST /orders/:id/payment-intent
	CreatePaymentIntent(c *gin.Context)

	// ConfirmPayment handles POST /orders/:id/confirm-payment
	ConfirmPayment(c *gin.Context)

	// CreateAlipayPayment handles POST /orders/:id/alipay
	CreateAlipayPayment(c *gin.Context)
}

// WebhookHttpPort defines HTTP handler interface for provider callbacks.
type WebhookHttpPort interface {
	// HandleStripeWebhook handles POST /webhooks/stripe
	HandleStripeWebhook(c *gin.Context)

	// HandleAlipayNotify handles POST /webhooks/alipay
	HandleAlipayNotify(c *gin.Context)
}
