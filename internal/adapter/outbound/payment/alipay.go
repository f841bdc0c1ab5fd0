package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/random"
	"github.com/go-pay/gopay"
	"github.com/go-pay/gopay/alipay"
)

const (
	alipaySuccessCode   = "10000"
	alipayTradeNotExist = "ACQ.TRADE_NOT_EXIST"
	alipayNotifyAck     = "success"
	alipayTimeout       = "30m"
)

// AlipayConfig holds Alipay configuration.
type AlipayConfig struct {
	AppID           string
	PrivateKey      string
	AlipayPublicKey string
	IsProd          bool
	NotifyURL       string
	ReturnURL       string
}

// alipayProvider implements outbound.PaymentProviderPort on Alipay page pay.
// The intent ID is the out_trade_no sent to Alipay.
type alipayProvider struct {
	client    *alipay.Client
	publicKey string
	returnURL string
}

// NewAlipayProvider creates a new Alipay provider.
func NewAlipayProvider(cfg *AlipayConfig) (outbound.PaymentProviderPort, error) {
	c, err := alipay.NewClient(cfg.AppID, cfg.PrivateKey, cfg.IsProd)
	if err != nil {
		return nil, fmt.Errorf("create alipay client: %w", err)
	}
	c.SetCharset(alipay.UTF8).SetSignType(alipay.RSA2)
	if cfg.NotifyURL != "" {
		c.SetNotifyUrl(cfg.NotifyURL)
	}
	if cfg.ReturnURL != "" {
		c.SetReturnUrl(cfg.ReturnURL)
	}
	c.AutoVerifySign([]byte(cfg.AlipayPublicKey))

	return &alipayProvider{
		client:    c,
		publicKey: cfg.AlipayPublicKey,
		returnURL: cfg.ReturnURL,
	}, nil
}

func (p *alipayProvider) Name() model.PaymentProvider {
	return model.PaymentProviderAlipay
}

func (p *alipayProvider) CreateIntent(ctx context.Context, params *model.CreateIntentParams) (*model.ProviderIntent, error) {
	// A closed trade number cannot be reused, so every attempt gets a suffix.
	outTradeNo := params.OrderNumber + "-" + random.UpperAlphaNum(6)

	bm := make(gopay.BodyMap)
	bm.Set("out_trade_no", outTradeNo).
		Set("total_amount", formatYuan(params.Amount)).
		Set("subject", "CarZone order "+params.OrderNumber).
		Set("product_code", "FAST_INSTANT_TRADE_PAY").
		Set("timeout_express", alipayTimeout)
	if params.ReturnURL != "" {
		bm.Set("return_url", params.ReturnURL)
	}
	if len(params.Metadata) > 0 {
		passback, _ := json.Marshal(params.Metadata)
		bm.Set("passback_params", string(passback))
	}

	payURL, err := p.client.TradePagePay(ctx, bm)
	if err != nil {
		return nil, fmt.Errorf("create page payment: %w", err)
	}

	return &model.ProviderIntent{
		ID:       outTradeNo,
		PayURL:   payURL,
		Amount:   params.Amount,
		Currency: params.Currency,
		Status:   model.IntentRequiresPayment,
	}, nil
}

func (p *alipayProvider) GetIntent(ctx context.Context, intentID string) (*model.ProviderIntent, error) {
	bm := make(gopay.BodyMap)
	bm.Set("out_trade_no", intentID)

	resp, err := p.client.TradeQuery(ctx, bm)
	// The trade only exists once the buyer opens the payment page.
	if resp != nil && resp.Response != nil && resp.Response.SubCode == alipayTradeNotExist {
		return &model.ProviderIntent{ID: intentID, Status: model.IntentRequiresPayment}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query trade: %w", err)
	}
	if resp.Response.Code != alipaySuccessCode {
		return nil, fmt.Errorf("alipay query error: %s - %s", resp.Response.Code, resp.Response.Msg)
	}

	amount, err := parseYuan(resp.Response.TotalAmount)
	if err != nil {
		return nil, err
	}
	return &model.ProviderIntent{
		ID:     intentID,
		Amount: amount,
		Status: mapAlipayTradeStatus(resp.Response.TradeStatus),
	}, nil
}

func (p *alipayProvider) CancelIntent(ctx context.Context, intentID string) error {
	bm := make(gopay.BodyMap)
	bm.Set("out_trade_no", intentID)

	resp, err := p.client.TradeClose(ctx, bm)
	if resp != nil && resp.Response != nil && resp.Response.SubCode == alipayTradeNotExist {
		return nil
	}
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}
	if resp.Response.Code != alipaySuccessCode {
		return fmt.Errorf("alipay close error: %s - %s", resp.Response.Code, resp.Response.Msg)
	}
	return nil
}

func (p *alipayProvider) Refund(ctx context.Context, intentID string, amount int64, reason string) (*model.ProviderRefund, error) {
	requestNo := intentID + "-R" + random.UpperAlphaNum(4)

	bm := make(gopay.BodyMap)
	bm.Set("out_trade_no", intentID).
		Set("out_request_no", requestNo).
		Set("refund_amount", formatYuan(amount))
	if reason != "" {
		bm.Set("refund_reason", reason)
	}

	resp, err := p.client.TradeRefund(ctx, bm)
	if err != nil {
		return nil, fmt.Errorf("refund trade: %w", err)
	}
	if resp.Response.Code != alipaySuccessCode {
		return nil, fmt.Errorf("alipay refund error: %s - %s", resp.Response.Code, resp.Response.Msg)
	}

	refunded, err := parseYuan(resp.Response.RefundFee)
	if err != nil {
		refunded = amount
	}
	return &model.ProviderRefund{
		ID:     requestNo,
		Amount: refunded,
		Status: "succeeded",
	}, nil
}

func (p *alipayProvider) ParseWebhook(ctx context.Context, payload []byte, _ map[string]string) (*model.WebhookNotification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	notify, err := alipay.ParseNotifyToBodyMap(req)
	if err != nil {
		return nil, fmt.Errorf("parse notify: %w", err)
	}

	ok, err := alipay.VerifySign(p.publicKey, notify)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return nil, errors.New("invalid signature")
	}

	// Stored as jsonb, so keep the form fields as a JSON object.
	raw, err := json.Marshal(notify)
	if err != nil {
		return nil, fmt.Errorf("encode notify: %w", err)
	}

	return &model.WebhookNotification{
		EventID:   notify.GetString("notify_id"),
		EventType: notify.GetString("notify_type"),
		IntentID:  notify.GetString("out_trade_no"),
		Status:    mapAlipayTradeStatus(notify.GetString("trade_status")),
		Raw:       string(raw),
		Ack:       alipayNotifyAck,
	}, nil
}

func mapAlipayTradeStatus(status string) model.IntentStatus {
	switch status {
	case "TRADE_SUCCESS", "TRADE_FINISHED":
		return model.IntentSucceeded
	case "TRADE_CLOSED":
		return model.IntentCanceled
	default:
		return model.IntentRequiresPayment
	}
}

// formatYuan renders minor units as a two-decimal amount.
func formatYuan(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

// parseYuan converts a decimal amount string into minor units.
func parseYuan(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	frac = (frac + "00")[:2]

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return units*100 + cents, nil
}

var _ outbound.PaymentProviderPort = (*alipayProvider)(nil)
