package invoicing_test

import (
	"context"
	"testing"
	"time"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// publishedTypes flattens the event types of every Publish call in order
func (m *MockEventPublisher) publishedTypes() []string {
	var types []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, e.EventType())
		}
	}
	return types
}

type services struct {
	store    *memory.Store
	invoices *appinvoicing.InvoiceService
	payments *appinvoicing.PaymentService
	receipts *appinvoicing.ReceiptService
	reports  *appinvoicing.ReportService
}

func newServices(opts ...appinvoicing.ServiceOption) *services {
	store := memory.NewStore()
	opts = append([]appinvoicing.ServiceOption{appinvoicing.WithClock(fixedClock)}, opts...)
	return &services{
		store:    store,
		invoices: appinvoicing.NewInvoiceService(store, opts...),
		payments: appinvoicing.NewPaymentService(store, opts...),
		receipts: appinvoicing.NewReceiptService(store, opts...),
		reports:  appinvoicing.NewReportService(store, opts...),
	}
}

func (s *services) createInvoice(t *testing.T, clientID string, amount int64, status string) *appinvoicing.InvoiceResponse {
	t.Helper()
	resp, err := s.invoices.CreateInvoice(context.Background(), appinvoicing.CreateInvoiceRequest{
		ClientID:  clientID,
		Amount:    decimal.NewFromInt(amount),
		IssueDate: fixedNow.AddDate(0, 0, -5),
		DueDate:   fixedNow.AddDate(0, 0, 25),
		Status:    status,
	})
	require.NoError(t, err)
	return resp
}

func (s *services) logPayment(t *testing.T, invoiceID int64, amount int64, method string) *appinvoicing.PaymentResponse {
	t.Helper()
	resp, err := s.payments.LogPayment(context.Background(), appinvoicing.LogPaymentRequest{
		InvoiceID: invoiceID,
		Amount:    decimal.NewFromInt(amount),
		Method:    method,
	})
	require.NoError(t, err)
	return resp
}

func decEqual(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.NewFromInt(expected).Equal(actual), "expected %d, got %s", expected, actual)
}
