package invoicing

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InvoiceService provides invoice lifecycle operations
type InvoiceService struct {
	serviceDeps
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, opts ...ServiceOption) *InvoiceService {
	return &InvoiceService{serviceDeps: newServiceDeps(scope, opts)}
}

// CreateInvoice validates the request and stores a new invoice under a fresh id.
// An id is only allocated once the terms are known to be valid.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrClientID, req.ClientID,
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	terms := invoicing.InvoiceTerms{
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Currency:  s.currency,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		Status:    req.Status,
	}

	var (
		resp   InvoiceResponse
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := terms.Validate(); err != nil {
			return err
		}
		inv, err := invoicing.NewInvoice(repos.InvoiceRepo().NextID(ctx), terms, s.now())
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		resp = ToInvoiceResponse(inv)
		events = inv.PullDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrInvoiceID, resp.ID)
	s.publishEvents(ctx, events)
	logger.L(ctx).Info("Invoice created",
		zap.Int64("invoice_id", resp.ID),
		zap.String("client_id", resp.ClientID),
		zap.String("status", resp.Status),
	)
	return &resp, nil
}

// GetInvoice returns an invoice by id
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*InvoiceResponse, error) {
	var resp InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListInvoices returns every invoice ordered by id
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]InvoiceResponse, error) {
	var resp []InvoiceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		resp = make([]InvoiceResponse, len(invoices))
		for i, inv := range invoices {
			resp[i] = ToInvoiceResponse(inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateStatus overwrites the status of an invoice. No transition graph applies.
func (s *InvoiceService) UpdateStatus(ctx context.Context, req UpdateInvoiceStatusRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update_status")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, req.InvoiceID,
		telemetry.SpanAttrInvoiceStatus, req.Status,
	)

	var (
		resp     InvoiceResponse
		previous invoicing.InvoiceStatus
		events   []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		previous = inv.Status
		if err := inv.SetStatus(req.Status, s.now()); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		resp = ToInvoiceResponse(inv)
		events = inv.PullDomainEvents()
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, events)
	logger.L(ctx).Info("Invoice status updated",
		zap.Int64("invoice_id", resp.ID),
		zap.String("previous_status", previous.String()),
		zap.String("status", resp.Status),
	)
	return &resp, nil
}

// GetStatus returns the current status of an invoice
func (s *InvoiceService) GetStatus(ctx context.Context, id int64) (*InvoiceStatusResponse, error) {
	var resp InvoiceStatusResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = InvoiceStatusResponse{InvoiceID: inv.ID, Status: inv.Status.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPaymentHistory returns the payments of an invoice, newest first
func (s *InvoiceService) GetPaymentHistory(ctx context.Context, id int64) ([]PaymentResponse, error) {
	var resp []PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToPaymentResponses(inv.PaymentHistory())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
