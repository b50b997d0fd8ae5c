package event

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured audit entry per billing event.
// It subscribes to every event.
type AuditLogHandler struct {
	logger     *zap.Logger
	serializer *EventSerializer
}

// NewAuditLogHandler creates an audit handler writing to base.
// A nil serializer omits the payload field. With a serializer, events of
// unregistered types are logged at warn level without a payload.
func NewAuditLogHandler(base *zap.Logger, serializer *EventSerializer) *AuditLogHandler {
	if base == nil {
		base = zap.NewNop()
	}
	return &AuditLogHandler{
		logger:     base.Named("audit"),
		serializer: serializer,
	}
}

// EventTypes returns nil: the handler receives all events
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.Int64("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	fields = append(fields, summaryFields(event)...)

	if h.serializer != nil {
		if !h.serializer.IsRegistered(event.EventType()) {
			h.logger.Warn("Unregistered domain event", fields...)
			return nil
		}
		payload, err := h.serializer.Serialize(event)
		if err != nil {
			return err
		}
		fields = append(fields, zap.ByteString("payload", payload))
	}

	h.logger.Info(auditMessage(event), fields...)
	return nil
}

func auditMessage(event shared.DomainEvent) string {
	switch event.EventType() {
	case invoicing.EventTypeInvoiceCreated:
		return "Invoice created"
	case invoicing.EventTypeInvoiceStatusChanged:
		return "Invoice status changed"
	case invoicing.EventTypeInvoicePaid:
		return "Invoice paid in full"
	case invoicing.EventTypePaymentLogged:
		return "Payment logged"
	case invoicing.EventTypeReceiptIssued:
		return "Receipt issued"
	default:
		return "Domain event"
	}
}

// summaryFields pulls the human-relevant fields out of known events
func summaryFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *invoicing.InvoiceCreatedEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID),
			zap.Stringer("amount", e.Amount),
			zap.String("currency", e.Currency.String()),
			zap.String("status", e.Status.String()),
		}
	case *invoicing.InvoiceStatusChangedEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID),
			zap.String("from", e.PreviousStatus.String()),
			zap.String("to", e.NewStatus.String()),
		}
	case *invoicing.InvoicePaidEvent:
		return []zap.Field{
			zap.String("client_id", e.ClientID),
			zap.String("amount", e.Amount.String()),
			zap.Int("payment_count", e.PaymentCount),
		}
	case *invoicing.PaymentLoggedEvent:
		return []zap.Field{
			zap.Int64("payment_id", e.PaymentID),
			zap.String("amount", e.Amount.String()),
			zap.String("method", string(e.Method)),
			zap.Stringer("remaining", e.RemainingAmount),
		}
	case *invoicing.ReceiptIssuedEvent:
		return []zap.Field{
			zap.String("receipt_number", e.ReceiptNumber),
			zap.Int64("invoice_id", e.InvoiceID),
			zap.Int64("payment_id", e.PaymentID),
		}
	}
	return nil
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
