package invoicing

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReceiptService issues receipts for logged payments
type ReceiptService struct {
	serviceDeps
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(scope TransactionScope, opts ...ServiceOption) *ReceiptService {
	return &ReceiptService{serviceDeps: newServiceDeps(scope, opts)}
}

// GenerateReceipt cross-checks the invoice/payment pair and issues a receipt.
// A rejected request allocates no receipt id and stores nothing.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, req GenerateReceiptRequest) (*ReceiptResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "generate")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, req.InvoiceID,
		telemetry.SpanAttrPaymentID, req.PaymentID,
	)

	var (
		resp   ReceiptResponse
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		payment, err := repos.PaymentRepo().FindByID(ctx, req.PaymentID)
		if err != nil {
			return err
		}
		if err := invoicing.ValidateReceiptSource(inv, payment); err != nil {
			return err
		}

		receipt, err := invoicing.NewReceipt(repos.ReceiptRepo().NextID(ctx), inv, payment, s.now())
		if err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Save(ctx, receipt); err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
		events = receipt.PullDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrReceiptNumber, resp.ReceiptNumber)
	s.publishEvents(ctx, events)
	logger.L(ctx).Info("Receipt generated",
		zap.Int64("receipt_id", resp.ID),
		zap.String("receipt_number", resp.ReceiptNumber),
		zap.Int64("invoice_id", resp.InvoiceID),
		zap.Int64("payment_id", resp.PaymentID),
	)
	return &resp, nil
}

// GetReceipt returns a receipt by id
func (s *ReceiptService) GetReceipt(ctx context.Context, id int64) (*ReceiptResponse, error) {
	var resp ReceiptResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		receipt, err := repos.ReceiptRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToReceiptResponse(receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
