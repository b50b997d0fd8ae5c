package invoicing

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PaymentService records payments against invoices
type PaymentService struct {
	serviceDeps
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, opts ...ServiceOption) *PaymentService {
	return &PaymentService{serviceDeps: newServiceDeps(scope, opts)}
}

// LogPayment applies a payment to an invoice and re-derives the invoice status.
// The remaining-amount check, the append and the status derivation happen in a
// single unit of work, so concurrent payments can never jointly overpay.
func (s *PaymentService) LogPayment(ctx context.Context, req LogPaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "log")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, req.InvoiceID,
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrPaymentMethod, req.Method,
	)

	var (
		resp   PaymentResponse
		status string
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if _, err := inv.ValidatePayment(req.Amount, req.Method); err != nil {
			return err
		}

		payment, err := inv.ApplyPayment(repos.PaymentRepo().NextID(ctx), req.Amount, req.Method, req.Reference, s.now())
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}

		resp = ToPaymentResponse(payment)
		status = inv.Status.String()
		events = inv.PullDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrPaymentID, resp.ID)
	telemetry.AddEvent(span, "payment_logged", telemetry.SpanAttrInvoiceStatus, status)
	s.publishEvents(ctx, events)
	logger.L(ctx).Info("Payment logged",
		zap.Int64("payment_id", resp.ID),
		zap.Int64("invoice_id", resp.InvoiceID),
		zap.String("amount", resp.Amount.String()),
		zap.String("method", resp.Method),
		zap.String("invoice_status", status),
	)
	return &resp, nil
}

// GetPayment returns a payment by id
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*PaymentResponse, error) {
	var resp PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
