package workers

import (
	"context"
	"time"

	"academy_backend/internal/logger"
	"academy_backend/internal/services"

	"gorm.io/gorm"
)

// BillingWorker periodically flips unpaid invoices past their due
// date to OVERDUE and retires lapsed subscriptions. Reads stay lazy
// either way; the sweep only keeps stored statuses from drifting too
// far behind. Disabled by default in config.
type BillingWorker struct {
	db       *gorm.DB
	invoices services.InvoiceService
	subs     services.SubscriptionService
	interval time.Duration
}

func NewBillingWorker(db *gorm.DB, invoices services.InvoiceService, subs services.SubscriptionService, interval time.Duration) *BillingWorker {
	return &BillingWorker{
		db:       db,
		invoices: invoices,
		subs:     subs,
		interval: interval,
	}
}

func (w *BillingWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *BillingWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("billing worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *BillingWorker) sweep() {
	now := time.Now().UTC()

	overdue, err := w.invoices.MarkOverdue(w.db, now)
	logger.WorkerLog("billing_worker", "mark_overdue", err)
	if err == nil && overdue > 0 {
		logger.Info("marked invoices overdue", "count", overdue)
	}

	expired, err := w.subs.ExpireLapsed(w.db, now)
	logger.WorkerLog("billing_worker", "expire_subscriptions", err)
	if err == nil && expired > 0 {
		logger.Info("expired lapsed subscriptions", "count", expired)
	}
}
