package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks billing activity: invoices created, payments
// logged, receipts issued and status transitions. It also samples the
// ledger periodically for the outstanding balance.
type BusinessMetrics struct {
	logger *zap.Logger

	invoiceCreatedTotal *Counter
	paymentTotal        *Counter
	paymentAmount       *Histogram
	receiptIssuedTotal  *Counter
	statusChangeTotal   *Counter

	outstandingAmount *FloatGauge
	invoiceCount      *FloatGauge

	ledgerProvider LedgerProvider

	ledgerMu      sync.Mutex
	knownStatuses map[string]struct{}

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// LedgerSnapshot is a point-in-time view of the invoice ledger.
type LedgerSnapshot struct {
	Currency         string
	Outstanding      float64
	InvoicesByStatus map[string]int
}

// LedgerProvider supplies ledger snapshots for periodic collection.
type LedgerProvider interface {
	LedgerSnapshot(ctx context.Context) (LedgerSnapshot, error)
}

// LedgerProviderFunc adapts a function to LedgerProvider.
type LedgerProviderFunc func(ctx context.Context) (LedgerSnapshot, error)

// LedgerSnapshot implements LedgerProvider
func (f LedgerProviderFunc) LedgerSnapshot(ctx context.Context) (LedgerSnapshot, error) {
	return f(ctx)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	LedgerProvider LedgerProvider
}

// NewBusinessMetrics creates the billing instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:         logger,
		ledgerProvider: cfg.LedgerProvider,
		knownStatuses:  make(map[string]struct{}),
		stopChan:       make(chan struct{}),
	}

	var err error
	if bm.invoiceCreatedTotal, err = NewCounter(cfg.Meter,
		"billing_invoice_created_total", "Total number of invoices created", "{invoices}"); err != nil {
		return nil, err
	}
	if bm.paymentTotal, err = NewCounter(cfg.Meter,
		"billing_payment_total", "Total number of payments logged", "{payments}"); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "billing_payment_amount",
		Description: "Distribution of logged payment amounts",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.receiptIssuedTotal, err = NewCounter(cfg.Meter,
		"billing_receipt_issued_total", "Total number of receipts issued", "{receipts}"); err != nil {
		return nil, err
	}
	if bm.statusChangeTotal, err = NewCounter(cfg.Meter,
		"billing_invoice_status_change_total", "Total number of invoice status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if bm.outstandingAmount, err = NewFloatGauge(cfg.Meter,
		"billing_outstanding_amount", "Outstanding balance across all invoices", "{currency}"); err != nil {
		return nil, err
	}
	if bm.invoiceCount, err = NewFloatGauge(cfg.Meter,
		"billing_invoice_count", "Number of stored invoices by status", "{invoices}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordInvoiceCreated counts a new invoice
func (bm *BusinessMetrics) RecordInvoiceCreated(ctx context.Context, currency, status string) {
	bm.invoiceCreatedTotal.Inc(ctx,
		AttrCurrency.String(currency),
		AttrInvoiceStatus.String(status),
	)
}

// RecordPayment counts a logged payment and records its amount
func (bm *BusinessMetrics) RecordPayment(ctx context.Context, method, currency string, amount float64) {
	bm.paymentTotal.Inc(ctx, AttrPaymentMethod.String(method))
	bm.paymentAmount.Record(ctx, amount,
		AttrPaymentMethod.String(method),
		AttrCurrency.String(currency),
	)
}

// RecordReceiptIssued counts an issued receipt
func (bm *BusinessMetrics) RecordReceiptIssued(ctx context.Context, method string) {
	bm.receiptIssuedTotal.Inc(ctx, AttrPaymentMethod.String(method))
}

// RecordStatusChange counts a status transition
func (bm *BusinessMetrics) RecordStatusChange(ctx context.Context, from, to string) {
	bm.statusChangeTotal.Inc(ctx,
		AttrFromStatus.String(from),
		AttrInvoiceStatus.String(to),
	)
}

// RecordLedger records a ledger snapshot on the gauges. Statuses reported
// by an earlier snapshot but absent from snap are recorded as zero.
func (bm *BusinessMetrics) RecordLedger(ctx context.Context, snap LedgerSnapshot) {
	bm.outstandingAmount.Record(ctx, snap.Outstanding, AttrCurrency.String(snap.Currency))

	bm.ledgerMu.Lock()
	defer bm.ledgerMu.Unlock()
	for status, count := range snap.InvoicesByStatus {
		bm.knownStatuses[status] = struct{}{}
		bm.invoiceCount.Record(ctx, float64(count), AttrInvoiceStatus.String(status))
	}
	for status := range bm.knownStatuses {
		if _, ok := snap.InvoicesByStatus[status]; !ok {
			bm.invoiceCount.Record(ctx, 0, AttrInvoiceStatus.String(status))
		}
	}
}

// StartPeriodicCollection samples the ledger every interval (default 1m)
// until Stop is called or ctx is done. It is non-blocking.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectLedger(ctx)
	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectLedger(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectLedger(ctx context.Context) {
	if bm.ledgerProvider == nil {
		return
	}
	snap, err := bm.ledgerProvider.LedgerSnapshot(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect ledger snapshot", zap.Error(err))
		return
	}
	bm.RecordLedger(ctx, snap)
}

// Stop stops the periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics setup error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
