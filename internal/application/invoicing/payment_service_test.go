package invoicing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPaymentService_LogPayment_FullPayment(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc := newServices(appinvoicing.WithEventPublisher(publisher))
	inv := svc.createInvoice(t, "CLIENT001", 1000, "")

	payment := svc.logPayment(t, inv.ID, 1000, "Cash")

	assert.Equal(t, int64(1), payment.ID)
	assert.Equal(t, inv.ID, payment.InvoiceID)
	assert.Equal(t, "Cash", payment.Method)
	assert.Equal(t, fixedNow, payment.PaymentDate)
	decEqual(t, 1000, payment.Amount)

	updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paid", updated.Status)
	decEqual(t, 1000, updated.PaidAmount)
	decEqual(t, 0, updated.RemainingAmount)

	history, err := svc.invoices.GetPaymentHistory(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, payment.ID, history[0].ID)

	assert.Equal(t, []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypePaymentLogged,
		invoicing.EventTypeInvoiceStatusChanged,
		invoicing.EventTypeInvoicePaid,
	}, publisher.publishedTypes())
}

func TestPaymentService_LogPayment_PartialOnOverdueInvoice(t *testing.T) {
	svc := newServices()
	inv, err := svc.invoices.CreateInvoice(context.Background(), appinvoicing.CreateInvoiceRequest{
		ClientID:  "CLIENT002",
		Amount:    decimal.NewFromInt(500),
		IssueDate: fixedNow.AddDate(0, 0, -30),
		DueDate:   fixedNow.AddDate(0, 0, -10),
		Status:    "Overdue",
	})
	require.NoError(t, err)

	svc.logPayment(t, inv.ID, 100, "BankTransfer")

	updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Overdue", updated.Status)
	decEqual(t, 100, updated.PaidAmount)
	decEqual(t, 400, updated.RemainingAmount)
}

func TestPaymentService_LogPayment_OverdueBeforeDueDateBecomesUnpaid(t *testing.T) {
	svc := newServices()
	inv := svc.createInvoice(t, "CLIENT001", 300, "Overdue")

	svc.logPayment(t, inv.ID, 100, "Debit")

	updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unpaid", updated.Status)
}

func TestPaymentService_LogPayment_PartialKeepsOtherStatuses(t *testing.T) {
	for _, status := range []string{"Draft", "Pending", "Cancelled"} {
		t.Run(status, func(t *testing.T) {
			svc := newServices()
			inv := svc.createInvoice(t, "CLIENT001", 300, status)

			svc.logPayment(t, inv.ID, 100, "Credit")

			updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
			require.NoError(t, err)
			assert.Equal(t, status, updated.Status)
		})
	}
}

func TestPaymentService_LogPayment_MethodIsCaseInsensitive(t *testing.T) {
	svc := newServices()
	inv := svc.createInvoice(t, "CLIENT001", 100, "")

	payment := svc.logPayment(t, inv.ID, 10, "paypal")
	assert.Equal(t, "PayPal", payment.Method)
}

func TestPaymentService_LogPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		method  string
		message string
	}{
		{
			name:    "zero amount",
			amount:  decimal.Zero,
			method:  "Cash",
			message: "Payment amount must be greater than zero",
		},
		{
			name:    "negative amount",
			amount:  decimal.NewFromInt(-1),
			method:  "Cash",
			message: "Payment amount must be greater than zero",
		},
		{
			name:    "overpayment",
			amount:  decimal.RequireFromString("250.5"),
			method:  "Cash",
			message: "Payment amount ($250.50) exceeds the remaining amount ($200.00) for invoice ID 1",
		},
		{
			name:    "unknown method",
			amount:  decimal.NewFromInt(10),
			method:  "Bitcoin",
			message: "Invalid payment method: Bitcoin. Valid values are: Cash, Credit, Debit, BankTransfer, Check, PayPal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newServices()
			inv := svc.createInvoice(t, "CLIENT001", 200, "Unpaid")

			resp, err := svc.payments.LogPayment(context.Background(), appinvoicing.LogPaymentRequest{
				InvoiceID: inv.ID,
				Amount:    tt.amount,
				Method:    tt.method,
			})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, shared.IsInvalidArgument(err))
			assert.Equal(t, tt.message, err.Error())

			updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
			require.NoError(t, err)
			assert.Empty(t, updated.Payments)
			assert.Equal(t, "Unpaid", updated.Status)

			// no payment id was consumed
			payment := svc.logPayment(t, inv.ID, 10, "Cash")
			assert.Equal(t, int64(1), payment.ID)
		})
	}
}

func TestPaymentService_LogPayment_PaidInvoiceRejectsFurtherPayments(t *testing.T) {
	svc := newServices()
	inv := svc.createInvoice(t, "CLIENT001", 50, "")
	svc.logPayment(t, inv.ID, 50, "Cash")

	_, err := svc.payments.LogPayment(context.Background(), appinvoicing.LogPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(1),
		Method:    "Cash",
	})
	require.Error(t, err)
	assert.Equal(t, "Payment amount ($1.00) exceeds the remaining amount ($0.00) for invoice ID 1", err.Error())
}

func TestPaymentService_LogPayment_UnknownInvoice(t *testing.T) {
	svc := newServices()
	_, err := svc.payments.LogPayment(context.Background(), appinvoicing.LogPaymentRequest{
		InvoiceID: 9,
		Amount:    decimal.NewFromInt(1),
		Method:    "Cash",
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Invoice with ID 9 not found", err.Error())
}

func TestPaymentService_LogPayment_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	svc := newServices()
	inv := svc.createInvoice(t, "CLIENT001", 100, "Unpaid")

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.payments.LogPayment(context.Background(), appinvoicing.LogPaymentRequest{
				InvoiceID: inv.ID,
				Amount:    decimal.NewFromInt(10),
				Method:    "Cash",
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	updated, err := svc.invoices.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	decEqual(t, 100, updated.PaidAmount)
	assert.Equal(t, "Paid", updated.Status)
	assert.Len(t, updated.Payments, 10)
}

func TestPaymentService_LogPayment_PublishFailureIsLogged(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))
	svc := newServices(appinvoicing.WithEventPublisher(publisher))

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	inv, err := svc.invoices.CreateInvoice(ctx, appinvoicing.CreateInvoiceRequest{
		ClientID:  "CLIENT001",
		Amount:    decimal.NewFromInt(20),
		IssueDate: fixedNow,
		DueDate:   fixedNow,
	})
	require.NoError(t, err)

	payment, err := svc.payments.LogPayment(ctx, appinvoicing.LogPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(5),
		Method:    "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), payment.ID)

	warnings := logs.FilterMessage("Failed to publish domain events").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "bus down", warnings[0].ContextMap()["error"])
}

func TestPaymentService_GetPayment(t *testing.T) {
	svc := newServices()
	inv := svc.createInvoice(t, "CLIENT001", 100, "")
	created := svc.logPayment(t, inv.ID, 40, "Check")

	found, err := svc.payments.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = svc.payments.GetPayment(context.Background(), 77)
	require.Error(t, err)
	assert.Equal(t, "Payment with ID 77 not found", err.Error())
}
