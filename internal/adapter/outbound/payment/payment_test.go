package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

func signedStripeEvent(t *testing.T, eventType, intentJSON string) ([]byte, map[string]string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(
		`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		stripe.APIVersion, eventType, intentJSON,
	))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, map[string]string{"stripe-signature": signed.Header}
}

func TestStripe_ParseWebhook_Succeeded(t *testing.T) {
	p := newStripeProvider(&StripeConfig{SecretKey: "sk_test", WebhookSecret: testWebhookSecret}, nil)
	payload, headers := signedStripeEvent(t, "payment_intent.succeeded",
		`{"id":"pi_1","object":"payment_intent","amount":2500,"currency":"usd","status":"succeeded"}`)

	n, err := p.ParseWebhook(context.Background(), payload, headers)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", n.EventID)
	assert.Equal(t, "pi_1", n.IntentID)
	assert.Equal(t, model.IntentSucceeded, n.Status)
	assert.Empty(t, n.Ack)
}

func TestStripe_ParseWebhook_Failed(t *testing.T) {
	p := newStripeProvider(&StripeConfig{WebhookSecret: testWebhookSecret}, nil)
	payload, headers := signedStripeEvent(t, "payment_intent.payment_failed",
		`{"id":"pi_2","object":"payment_intent","status":"requires_payment_method","last_payment_error":{"code":"card_declined","message":"Your card was declined."}}`)

	n, err := p.ParseWebhook(context.Background(), payload, headers)
	require.NoError(t, err)
	assert.Equal(t, model.IntentFailed, n.Status)
	assert.Equal(t, "card_declined", n.FailureCode)
	assert.Equal(t, "Your card was declined.", n.FailureMessage)
}

func TestStripe_ParseWebhook_OtherEvent(t *testing.T) {
	p := newStripeProvider(&StripeConfig{WebhookSecret: testWebhookSecret}, nil)
	payload, headers := signedStripeEvent(t, "customer.created", `{"id":"cus_1","object":"customer"}`)

	n, err := p.ParseWebhook(context.Background(), payload, headers)
	require.NoError(t, err)
	assert.Empty(t, n.IntentID)
}

func TestStripe_ParseWebhook_BadSignature(t *testing.T) {
	p := newStripeProvider(&StripeConfig{WebhookSecret: "whsec_other"}, nil)
	payload, headers := signedStripeEvent(t, "payment_intent.succeeded", `{"id":"pi_1","object":"payment_intent"}`)

	_, err := p.ParseWebhook(context.Background(), payload, headers)
	assert.Error(t, err)

	_, err = p.ParseWebhook(context.Background(), payload, nil)
	assert.Error(t, err)
}

func TestMapStripeStatus(t *testing.T) {
	tests := []struct {
		in   stripe.PaymentIntentStatus
		want model.IntentStatus
	}{
		{stripe.PaymentIntentStatusSucceeded, model.IntentSucceeded},
		{stripe.PaymentIntentStatusProcessing, model.IntentProcessing},
		{stripe.PaymentIntentStatusRequiresCapture, model.IntentProcessing},
		{stripe.PaymentIntentStatusCanceled, model.IntentCanceled},
		{stripe.PaymentIntentStatusRequiresPaymentMethod, model.IntentRequiresPayment},
		{stripe.PaymentIntentStatusRequiresAction, model.IntentRequiresPayment},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, mapStripeStatus(tt.in))
		})
	}
}

func TestYuanAmounts(t *testing.T) {
	assert.Equal(t, "25.00", formatYuan(2500))
	assert.Equal(t, "0.07", formatYuan(7))
	assert.Equal(t, "1234.56", formatYuan(123456))

	for in, want := range map[string]int64{"25.00": 2500, "0.07": 7, "12.5": 1250, "8": 800, "": 0} {
		got, err := parseYuan(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseYuan("1.234")
	assert.Error(t, err)
	_, err = parseYuan("abc")
	assert.Error(t, err)
}

func TestMapAlipayTradeStatus(t *testing.T) {
	assert.Equal(t, model.IntentSucceeded, mapAlipayTradeStatus("TRADE_SUCCESS"))
	assert.Equal(t, model.IntentSucceeded, mapAlipayTradeStatus("TRADE_FINISHED"))
	assert.Equal(t, model.IntentCanceled, mapAlipayTradeStatus("TRADE_CLOSED"))
	assert.Equal(t, model.IntentRequiresPayment, mapAlipayTradeStatus("WAIT_BUYER_PAY"))
}

// fakeProvider fails GetIntent while failing is set.
type fakeProvider struct {
	failing bool
	calls   int
}

func (f *fakeProvider) Name() model.PaymentProvider { return model.PaymentProviderStripe }

func (f *fakeProvider) CreateIntent(context.Context, *model.CreateIntentParams) (*model.ProviderIntent, error) {
	return &model.ProviderIntent{ID: "pi_new"}, nil
}

func (f *fakeProvider) GetIntent(_ context.Context, id string) (*model.ProviderIntent, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("upstream down")
	}
	return &model.ProviderIntent{ID: id, Status: model.IntentSucceeded}, nil
}

func (f *fakeProvider) CancelIntent(context.Context, string) error { return nil }

func (f *fakeProvider) Refund(context.Context, string, int64, string) (*model.ProviderRefund, error) {
	return &model.ProviderRefund{ID: "re_1"}, nil
}

func (f *fakeProvider) ParseWebhook(context.Context, []byte, map[string]string) (*model.WebhookNotification, error) {
	return &model.WebhookNotification{EventID: "evt"}, nil
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeProvider{failing: true}
	p := WithBreaker(inner, BreakerConfig{MaxFailures: 2, Timeout: time.Minute}, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.GetIntent(ctx, "pi_1")
		assert.EqualError(t, err, "upstream down")
	}

	_, err := p.GetIntent(ctx, "pi_1")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls)

	// Webhook parsing never touches the breaker.
	n, err := p.ParseWebhook(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "evt", n.EventID)
}

func TestBreaker_PassesResults(t *testing.T) {
	p := WithBreaker(&fakeProvider{}, DefaultBreakerConfig(), nil, zap.NewNop())
	ctx := context.Background()

	intent, err := p.GetIntent(ctx, "pi_9")
	require.NoError(t, err)
	assert.Equal(t, "pi_9", intent.ID)

	refund, err := p.Refund(ctx, "pi_9", 100, "")
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.ID)

	assert.NoError(t, p.CancelIntent(ctx, "pi_9"))
	assert.Equal(t, model.PaymentProviderStripe, p.Name())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{})

	p, err := r.Get(model.PaymentProviderStripe)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentProviderStripe, p.Name())

	_, err = r.Get(model.PaymentProviderAlipay)
	assert.Error(t, err)
	assert.Equal(t, []string{"stripe"}, r.Names())
}
