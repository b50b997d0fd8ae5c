package event

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/telemetry"
)

// BusinessMetricsRecorder is the subset of telemetry.BusinessMetrics used
// by MetricsHandler
type BusinessMetricsRecorder interface {
	RecordInvoiceCreated(ctx context.Context, currency, status string)
	RecordPayment(ctx context.Context, method, currency string, amount float64)
	RecordReceiptIssued(ctx context.Context, method string)
	RecordStatusChange(ctx context.Context, from, to string)
}

// MetricsHandler feeds billing events into business metrics
type MetricsHandler struct {
	metrics BusinessMetricsRecorder
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics BusinessMetricsRecorder) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes returns the events that carry metric data
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoiceStatusChanged,
		invoicing.EventTypePaymentLogged,
		invoicing.EventTypeReceiptIssued,
	}
}

// Handle records the metric for event
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoicing.InvoiceCreatedEvent:
		h.metrics.RecordInvoiceCreated(ctx, e.Currency.String(), e.Status.String())
	case *invoicing.InvoiceStatusChangedEvent:
		h.metrics.RecordStatusChange(ctx, e.PreviousStatus.String(), e.NewStatus.String())
	case *invoicing.PaymentLoggedEvent:
		h.metrics.RecordPayment(ctx, string(e.Method), e.Amount.Currency().String(), e.Amount.Float64())
	case *invoicing.ReceiptIssuedEvent:
		h.metrics.RecordReceiptIssued(ctx, string(e.Method))
	}
	return nil
}

var (
	_ shared.EventHandler     = (*MetricsHandler)(nil)
	_ BusinessMetricsRecorder = (*telemetry.BusinessMetrics)(nil)
)
