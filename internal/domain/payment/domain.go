package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentDomain defines the payment domain service interface.
type PaymentDomain interface {
	// CreatePaymentIntent starts (or resumes) a card payment for the user's order.
	CreatePaymentIntent(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentIntentResponse, error)

	// CreateAlipayPayment starts (or resumes) an Alipay page payment.
	CreateAlipayPayment(ctx context.Context, userID, orderID uuid.UUID, returnURL string) (*model.PaymentIntentResponse, error)

	// ConfirmPayment asks the provider for the intent's real status and
	// applies it. The order is marked paid only if the provider reports success.
	ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, intentID string) (*model.Order, error)

	// HandleWebhook verifies and applies a provider notification. It returns
	// the body the provider expects on success.
	HandleWebhook(ctx context.Context, provider model.PaymentProvider, payload []byte, headers map[string]string) (string, error)

	// Reconcile settles intents that have been open too long. It returns how
	// many payments changed state.
	Reconcile(ctx context.Context) (int, error)
}

type paymentDomain struct {
	paymentDB outbound.PaymentDatabasePort
	webhookDB outbound.WebhookEventDatabasePort
	providers outbound.PaymentProviderRegistryPort
	orders    outbound.PaymentOrderPort
	publisher events.Publisher
	config    *Config
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPaymentDomain creates a new payment domain service.
func NewPaymentDomain(
	paymentDB outbound.PaymentDatabasePort,
	webhookDB outbound.WebhookEventDatabasePort,
	providers outbound.PaymentProviderRegistryPort,
	orders outbound.PaymentOrderPort,
	publisher events.Publisher,
	config *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) PaymentDomain {
	if config == nil {
		config = DefaultConfig()
	}
	return &paymentDomain{
		paymentDB: paymentDB,
		webhookDB: webhookDB,
		providers: providers,
		orders:    orders,
		publisher: publisher,
		config:    config,
		metrics:   m,
		logger:    logger,
	}
}

func (d *paymentDomain) CreatePaymentIntent(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentIntentResponse, error) {
	return d.startPayment(ctx, model.PaymentProviderStripe, userID, orderID, "")
}

func (d *paymentDomain) CreateAlipayPayment(ctx context.Context, userID, orderID uuid.UUID, returnURL string) (*model.PaymentIntentResponse, error) {
	if returnURL == "" {
		returnURL = d.config.ReturnURL
	}
	return d.startPayment(ctx, model.PaymentProviderAlipay, userID, orderID, returnURL)
}

func (d *paymentDomain) startPayment(ctx context.Context, name model.PaymentProvider, userID, orderID uuid.UUID, returnURL string) (*model.PaymentIntentResponse, error) {
	order, err := d.payableOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	provider, err := d.providers.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotAvailable, name)
	}

	if resp, err := d.resumeIntent(ctx, provider, order); err != nil || resp != nil {
		return resp, err
	}
	// The order only takes the new intent if nobody attached another meanwhile.
	var replaces string
	if order.HasIntent() {
		replaces = *order.PaymentIntentID
	}

	pi, err := provider.CreateIntent(ctx, &model.CreateIntentParams{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		ReturnURL:   returnURL,
		Metadata: map[string]string{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"user_id":      userID.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create intent: %v", ErrProviderFailure, err)
	}

	payment := &model.Payment{
		ID:               uuid.New(),
		OrderID:          order.ID,
		UserID:           userID,
		Provider:         name,
		ProviderIntentID: pi.ID,
		Amount:           order.TotalAmount,
		Currency:         order.Currency,
		Status:           model.PaymentStatusPending,
	}
	if err := d.paymentDB.Create(ctx, payment); err != nil {
		d.abandonIntent(ctx, provider, pi.ID)
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if err := d.orders.AttachIntent(ctx, order.ID, name, pi.ID, replaces); err != nil {
		d.abandonIntent(ctx, provider, pi.ID)
		payment.Status = model.PaymentStatusCanceled
		if uerr := d.paymentDB.Update(ctx, payment); uerr != nil {
			d.logger.Warn("failed to cancel unattached payment",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(uerr),
			)
		}
		return nil, fmt.Errorf("attach intent: %w", err)
	}

	d.metrics.RecordPayment(string(name), string(model.PaymentStatusPending))
	d.logger.Info("payment intent created",
		zap.String("order_id", order.ID.String()),
		zap.String("provider", string(name)),
		zap.String("intent_id", pi.ID),
		zap.Int64("amount", order.TotalAmount),
	)
	return intentResponse(order.ID, name, pi), nil
}

// abandonIntent voids a fresh intent that never made it onto the order.
func (d *paymentDomain) abandonIntent(ctx context.Context, provider outbound.PaymentProviderPort, intentID string) {
	if err := provider.CancelIntent(ctx, intentID); err != nil {
		d.logger.Error("failed to cancel abandoned intent",
			zap.String("provider", string(provider.Name())),
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
	}
}

// payableOrder loads the user's order and checks it can take a payment.
func (d *paymentDomain) payableOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	switch {
	case order.Status == model.OrderStatusCancelled:
		return nil, ErrOrderCancelled
	case order.PaymentStatus.IsPaid():
		return nil, ErrOrderAlreadyPaid
	case !order.PaymentStatus.AcceptsPayment():
		return nil, ErrOrderNotPayable
	}
	return order, nil
}

// resumeIntent returns the order's current intent if it is still usable with
// the same provider and amount. An unusable open intent is abandoned so only
// one attempt can ever collect money.
func (d *paymentDomain) resumeIntent(ctx context.Context, provider outbound.PaymentProviderPort, order *model.Order) (*model.PaymentIntentResponse, error) {
	if !order.HasIntent() {
		return nil, nil
	}
	existing, err := d.paymentDB.FindByIntentID(ctx, *order.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	if existing == nil || !existing.Status.IsOpen() {
		return nil, nil
	}

	current, err := d.providers.Get(existing.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotAvailable, existing.Provider)
	}
	pi, err := current.GetIntent(ctx, existing.ProviderIntentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get intent: %v", ErrProviderFailure, err)
	}

	if pi.Status == model.IntentSucceeded {
		if err := d.applyIntent(ctx, existing, pi.Status, "", ""); err != nil {
			return nil, err
		}
		return nil, ErrOrderAlreadyPaid
	}

	reusable := current.Name() == provider.Name() &&
		existing.Amount == order.TotalAmount &&
		(pi.Status.Payable() || pi.Status == model.IntentProcessing)
	if reusable {
		d.logger.Info("reusing open payment intent",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", pi.ID),
		)
		return intentResponse(order.ID, current.Name(), pi), nil
	}

	if pi.Status.Payable() {
		if err := current.CancelIntent(ctx, existing.ProviderIntentID); err != nil {
			return nil, fmt.Errorf("%w: cancel intent: %v", ErrProviderFailure, err)
		}
		pi.Status = model.IntentCanceled
	}
	if pi.Status == model.IntentProcessing {
		// Money may still arrive on the old intent; a second one must not be opened.
		return nil, ErrOrderNotPayable
	}
	existing.Status = model.PaymentStatusCanceled
	if err := d.paymentDB.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return nil, nil
}

func (d *paymentDomain) ConfirmPayment(ctx context.Context, userID, orderID uuid.UUID, intentID string) (*model.Order, error) {
	order, err := d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if !order.HasIntent() || *order.PaymentIntentID != intentID {
		return nil, ErrIntentMismatch
	}
	if order.PaymentStatus.IsPaid() {
		return order, nil
	}

	payment, err := d.paymentDB.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil || payment.OrderID != order.ID {
		return nil, ErrPaymentNotFound
	}

	provider, err := d.providers.Get(payment.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotAvailable, payment.Provider)
	}
	pi, err := provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: get intent: %v", ErrProviderFailure, err)
	}

	if err := d.applyIntent(ctx, payment, pi.Status, pi.FailureCode, pi.FailureMessage); err != nil {
		return nil, err
	}

	order, err = d.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// applyIntent moves a payment to the state the provider reports and
// announces the outcome. Reapplying a known outcome re-announces it so a
// handler that failed earlier gets another chance; handlers are idempotent.
func (d *paymentDomain) applyIntent(ctx context.Context, payment *model.Payment, status model.IntentStatus, code, message string) error {
	switch status {
	case model.IntentSucceeded:
		if payment.Status != model.PaymentStatusSucceeded {
			if !payment.Status.CanTransitionTo(model.PaymentStatusSucceeded) {
				d.logger.Warn("ignoring success for settled payment",
					zap.String("payment_id", payment.ID.String()),
					zap.String("status", string(payment.Status)),
				)
				return nil
			}
			now := time.Now()
			payment.Status = model.PaymentStatusSucceeded
			payment.SucceededAt = &now
			payment.FailureCode = ""
			payment.FailureMessage = ""
			if err := d.paymentDB.Update(ctx, payment); err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
			d.metrics.RecordPayment(string(payment.Provider), string(payment.Status))
			d.logger.Info("payment succeeded",
				zap.String("payment_id", payment.ID.String()),
				zap.String("order_id", payment.OrderID.String()),
			)
		}
		paidAt := time.Now()
		if payment.SucceededAt != nil {
			paidAt = *payment.SucceededAt
		}
		return d.publisher.Publish(ctx, events.NewPaymentSucceededEvent(
			payment.ID, payment.OrderID, payment.UserID, payment.ProviderIntentID,
			payment.Amount, payment.Currency, string(payment.Provider), paidAt,
		))

	case model.IntentFailed, model.IntentCanceled:
		target := model.PaymentStatusFailed
		if status == model.IntentCanceled {
			target = model.PaymentStatusCanceled
		}
		if payment.Status == target {
			return nil
		}
		if !payment.Status.CanTransitionTo(target) {
			return nil
		}
		payment.Status = target
		payment.FailureCode = code
		payment.FailureMessage = message
		if err := d.paymentDB.Update(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		d.metrics.RecordPayment(string(payment.Provider), string(target))
		d.logger.Info("payment did not complete",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(target)),
			zap.String("failure_code", code),
		)
		return d.publisher.Publish(ctx, events.NewPaymentFailedEvent(
			payment.ID, payment.OrderID, payment.UserID, payment.ProviderIntentID,
			code, message, string(payment.Provider),
		))

	case model.IntentProcessing:
		if !payment.Status.CanTransitionTo(model.PaymentStatusProcessing) {
			return nil
		}
		payment.Status = model.PaymentStatusProcessing
		if err := d.paymentDB.Update(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
	}
	return nil
}

func (d *paymentDomain) HandleWebhook(ctx context.Context, name model.PaymentProvider, payload []byte, headers map[string]string) (string, error) {
	provider, err := d.providers.Get(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrProviderNotAvailable, name)
	}

	n, err := provider.ParseWebhook(ctx, payload, headers)
	if err != nil {
		d.metrics.RecordWebhook(string(name), "invalid")
		return "", fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}

	done, err := d.webhookDB.Exists(ctx, string(name), n.EventID)
	if err != nil {
		return "", fmt.Errorf("check webhook event: %w", err)
	}
	if done {
		d.metrics.RecordWebhook(string(name), "duplicate")
		d.logger.Info("webhook event already processed",
			zap.String("provider", string(name)),
			zap.String("event_id", n.EventID),
		)
		return n.Ack, nil
	}

	record := &model.WebhookEvent{
		ID:        uuid.New(),
		Provider:  string(name),
		EventID:   n.EventID,
		EventType: n.EventType,
		Data:      n.Raw,
	}
	if err := d.webhookDB.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store webhook event: %w", err)
	}

	processErr := d.processNotification(ctx, n)
	if err := d.webhookDB.MarkProcessed(ctx, record.ID, processErr); err != nil {
		d.logger.Error("failed to mark webhook event processed", zap.Error(err))
	}
	if processErr != nil {
		d.metrics.RecordWebhook(string(name), "failed")
		return "", processErr
	}

	d.metrics.RecordWebhook(string(name), "processed")
	return n.Ack, nil
}

func (d *paymentDomain) processNotification(ctx context.Context, n *model.WebhookNotification) error {
	if n.IntentID == "" {
		d.logger.Debug("ignoring webhook without intent", zap.String("event_type", n.EventType))
		return nil
	}
	payment, err := d.paymentDB.FindByIntentID(ctx, n.IntentID)
	if err != nil {
		return fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		// Intents created outside this store share the account; not ours to settle.
		d.logger.Warn("webhook for unknown intent", zap.String("intent_id", n.IntentID))
		return nil
	}
	return d.applyIntent(ctx, payment, n.Status, n.FailureCode, n.FailureMessage)
}

func (d *paymentDomain) Reconcile(ctx context.Context) (int, error) {
	orders, err := d.orders.ListAwaitingPayment(ctx, d.config.ReconcileAfter, d.config.ReconcileBatch)
	if err != nil {
		return 0, fmt.Errorf("list awaiting payment: %w", err)
	}

	settled := 0
	var errs []error
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return settled, err
		}
		if !order.HasIntent() {
			continue
		}
		changed, err := d.reconcileOrder(ctx, order)
		if err != nil {
			d.logger.Warn("reconcile failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if changed {
			settled++
		}
	}
	return settled, errors.Join(errs...)
}

func (d *paymentDomain) reconcileOrder(ctx context.Context, order *model.Order) (bool, error) {
	payment, err := d.paymentDB.FindByIntentID(ctx, *order.PaymentIntentID)
	if err != nil {
		return false, fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return false, nil
	}
	provider, err := d.providers.Get(payment.Provider)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrProviderNotAvailable, payment.Provider)
	}
	pi, err := provider.GetIntent(ctx, payment.ProviderIntentID)
	if err != nil {
		return false, fmt.Errorf("%w: get intent: %v", ErrProviderFailure, err)
	}

	before := payment.Status
	if err := d.applyIntent(ctx, payment, pi.Status, pi.FailureCode, pi.FailureMessage); err != nil {
		return false, err
	}
	if payment.Status != before {
		d.metrics.RecordReconciled(string(payment.Provider), string(payment.Status))
		return true, nil
	}
	return false, nil
}

func intentResponse(orderID uuid.UUID, provider model.PaymentProvider, pi *model.ProviderIntent) *model.PaymentIntentResponse {
	return &model.PaymentIntentResponse{
		OrderID:         orderID,
		Provider:        provider,
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		PayURL:          pi.PayURL,
		Amount:          pi.Amount,
		Currency:        pi.Currency,
	}
}
