package payment

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reconciler periodically settles payment intents whose webhooks never arrived.
type Reconciler struct {
	domain   PaymentDomain
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewReconciler creates a reconciler that runs every interval.
func NewReconciler(domain PaymentDomain, interval time.Duration, logger *zap.Logger) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{
		domain:   domain,
		interval: interval,
		timeout:  time.Minute,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start starts the background loop.
func (r *Reconciler) Start() {
	go r.loop()
}

// Stop stops the loop and waits for an in-flight pass to finish.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	<-r.done
}

func (r *Reconciler) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.RunOnce()
		}
	}
}

// RunOnce performs a single reconcile pass.
func (r *Reconciler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	settled, err := r.domain.Reconcile(ctx)
	if err != nil {
		r.logger.Warn("payment reconcile pass had errors", zap.Int("settled", settled), zap.Error(err))
		return
	}
	if settled > 0 {
		r.logger.Info("payment reconcile pass", zap.Int("settled", settled))
	}
}
