package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// stripeProvider implements outbound.PaymentProviderPort on Stripe PaymentIntents.
type stripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a new Stripe provider.
func NewStripeProvider(cfg *StripeConfig) outbound.PaymentProviderPort {
	return newStripeProvider(cfg, nil)
}

func newStripeProvider(cfg *StripeConfig, backends *stripe.Backends) *stripeProvider {
	return &stripeProvider{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
	}
}

func (p *stripeProvider) Name() model.PaymentProvider {
	return model.PaymentProviderStripe
}

func (p *stripeProvider) CreateIntent(ctx context.Context, params *model.CreateIntentParams) (*model.ProviderIntent, error) {
	pip := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(strings.ToLower(params.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Order " + params.OrderNumber),
	}
	pip.Context = ctx
	pip.AddMetadata("order_id", params.OrderID.String())
	pip.AddMetadata("order_number", params.OrderNumber)
	for k, v := range params.Metadata {
		pip.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(pip)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return mapStripeIntent(pi), nil
}

func (p *stripeProvider) GetIntent(ctx context.Context, intentID string) (*model.ProviderIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return mapStripeIntent(pi), nil
}

func (p *stripeProvider) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := p.api.PaymentIntents.Cancel(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		// Cancelling an intent that is already canceled is not a failure.
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodePaymentIntentUnexpectedState {
			return nil
		}
		return fmt.Errorf("cancel payment intent: %w", err)
	}
	return nil
}

func (p *stripeProvider) Refund(ctx context.Context, intentID string, amount int64, reason string) (*model.ProviderRefund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	if reason != "" {
		params.AddMetadata("reason", reason)
	}

	r, err := p.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	return &model.ProviderRefund{
		ID:     r.ID,
		Amount: r.Amount,
		Status: string(r.Status),
	}, nil
}

func (p *stripeProvider) ParseWebhook(_ context.Context, payload []byte, headers map[string]string) (*model.WebhookNotification, error) {
	signature := headerValue(headers, "Stripe-Signature")
	if signature == "" {
		return nil, errors.New("missing Stripe-Signature header")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}

	n := &model.WebhookNotification{
		EventID:   event.ID,
		EventType: string(event.Type),
		Raw:       string(payload),
	}
	if !strings.HasPrefix(string(event.Type), "payment_intent.") {
		return n, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	intent := mapStripeIntent(&pi)
	if string(event.Type) == "payment_intent.payment_failed" {
		intent.Status = model.IntentFailed
	}

	n.IntentID = intent.ID
	n.Status = intent.Status
	n.FailureCode = intent.FailureCode
	n.FailureMessage = intent.FailureMessage
	return n, nil
}

// mapStripeIntent converts a Stripe PaymentIntent into the provider-neutral shape.
func mapStripeIntent(pi *stripe.PaymentIntent) *model.ProviderIntent {
	intent := &model.ProviderIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       mapStripeStatus(pi.Status),
	}
	if pi.LastPaymentError != nil {
		intent.FailureCode = string(pi.LastPaymentError.Code)
		intent.FailureMessage = pi.LastPaymentError.Msg
		// Stripe moves a declined intent back to requires_payment_method.
		if intent.Status == model.IntentRequiresPayment {
			intent.Status = model.IntentFailed
		}
	}
	return intent
}

func mapStripeStatus(status stripe.PaymentIntentStatus) model.IntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return model.IntentSucceeded
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusRequiresCapture:
		return model.IntentProcessing
	case stripe.PaymentIntentStatusCanceled:
		return model.IntentCanceled
	default:
		return model.IntentRequiresPayment
	}
}

// headerValue looks a header up case-insensitively.
func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

var _ outbound.PaymentProviderPort = (*stripeProvider)(nil)
