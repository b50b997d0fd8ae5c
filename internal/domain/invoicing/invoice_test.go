package invoicing

import (
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

// Test helpers
func createTestInvoice(t *testing.T, amount int64, dueOffsetDays int, status InvoiceStatus) *Invoice {
	t.Helper()
	inv, err := NewInvoice(1, InvoiceTerms{
		ClientID:  "CLIENT001",
		Amount:    decimal.NewFromInt(amount),
		IssueDate: testNow.AddDate(0, 0, -30),
		DueDate:   testNow.AddDate(0, 0, dueOffsetDays),
		Status:    status.String(),
	}, testNow)
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func eventTypes(inv *Invoice) []string {
	types := make([]string, 0, len(inv.GetDomainEvents()))
	for _, e := range inv.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	return types
}

// ============================================
// InvoiceStatus Tests
// ============================================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusPending, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusUnpaid, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatus("paid"), false},
		{InvoiceStatus("Refunded"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestParseInvoiceStatus_RejectsUnknown(t *testing.T) {
	_, err := ParseInvoiceStatus("Archived")
	require.Error(t, err)
	assert.True(t, shared.IsInvalidArgument(err))
	assert.Equal(t, "Invalid invoice status: Archived. Valid values are: Draft, Pending, Paid, Unpaid, Overdue, Cancelled", err.Error())
}

// ============================================
// NewInvoice Tests
// ============================================

func TestNewInvoice(t *testing.T) {
	issue := testNow

	tests := []struct {
		name       string
		terms      InvoiceTerms
		wantStatus InvoiceStatus
		wantErr    string
	}{
		{
			name:       "due date equal to issue date",
			terms:      InvoiceTerms{ClientID: "C1", Amount: decimal.NewFromInt(10), IssueDate: issue, DueDate: issue, Status: "Pending"},
			wantStatus: InvoiceStatusPending,
		},
		{
			name:       "empty status defaults to draft",
			terms:      InvoiceTerms{ClientID: "C1", Amount: decimal.NewFromInt(10), IssueDate: issue, DueDate: issue.AddDate(0, 1, 0)},
			wantStatus: InvoiceStatusDraft,
		},
		{
			name:    "due date before issue date",
			terms:   InvoiceTerms{ClientID: "C1", Amount: decimal.NewFromInt(10), IssueDate: issue, DueDate: issue.Add(-time.Second)},
			wantErr: "Due date cannot be earlier than issue date",
		},
		{
			name:    "zero amount",
			terms:   InvoiceTerms{ClientID: "C1", Amount: decimal.Zero, IssueDate: issue, DueDate: issue},
			wantErr: "Amount must be greater than zero",
		},
		{
			name:    "negative amount",
			terms:   InvoiceTerms{ClientID: "C1", Amount: decimal.NewFromInt(-5), IssueDate: issue, DueDate: issue},
			wantErr: "Amount must be greater than zero",
		},
		{
			name:    "blank client",
			terms:   InvoiceTerms{ClientID: "  ", Amount: decimal.NewFromInt(10), IssueDate: issue, DueDate: issue},
			wantErr: "Client ID cannot be empty",
		},
		{
			name:    "status with wrong case",
			terms:   InvoiceTerms{ClientID: "C1", Amount: decimal.NewFromInt(10), IssueDate: issue, DueDate: issue, Status: "paid"},
			wantErr: "Invalid invoice status: paid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := NewInvoice(42, tt.terms, testNow)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, shared.IsInvalidArgument(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, inv)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), inv.ID)
			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.Equal(t, valueobject.DefaultCurrency, inv.Currency)
			assert.True(t, inv.PaidAmount().IsZero())
			assert.True(t, inv.RemainingAmount().Equal(tt.terms.Amount))
			assert.Equal(t, []string{EventTypeInvoiceCreated}, eventTypes(inv))
		})
	}
}

// ============================================
// SetStatus Tests
// ============================================

func TestInvoice_SetStatus(t *testing.T) {
	t.Run("any status may move to any other", func(t *testing.T) {
		inv := createTestInvoice(t, 100, 10, InvoiceStatusPaid)

		require.NoError(t, inv.SetStatus("Draft", testNow))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, []string{EventTypeInvoiceStatusChanged}, eventTypes(inv))
	})

	t.Run("same status raises no event", func(t *testing.T) {
		inv := createTestInvoice(t, 100, 10, InvoiceStatusUnpaid)

		require.NoError(t, inv.SetStatus("Unpaid", testNow))
		assert.Empty(t, inv.GetDomainEvents())
	})

	t.Run("invalid status leaves invoice untouched", func(t *testing.T) {
		inv := createTestInvoice(t, 100, 10, InvoiceStatusUnpaid)

		err := inv.SetStatus("Closed", testNow)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidArgument(err))
		assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
	})
}

// ============================================
// ApplyPayment Tests
// ============================================

func TestInvoice_ApplyPayment_FullPaymentMarksPaid(t *testing.T) {
	inv := createTestInvoice(t, 1000, 10, InvoiceStatusUnpaid)

	payment, err := inv.ApplyPayment(1, decimal.NewFromInt(1000), "Cash", "", testNow)
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount().IsZero())
	assert.Len(t, inv.PaymentHistory(), 1)
	assert.Equal(t, PaymentMethodCash, payment.Method)
	assert.Equal(t, testNow, payment.PaymentDate)
	assert.Equal(t, inv.ID, payment.InvoiceID)
	assert.Equal(t,
		[]string{EventTypePaymentLogged, EventTypeInvoiceStatusChanged, EventTypeInvoicePaid},
		eventTypes(inv))
}

func TestInvoice_ApplyPayment_PartialOnOverdueStaysOverdue(t *testing.T) {
	inv := createTestInvoice(t, 500, -5, InvoiceStatusOverdue)

	_, err := inv.ApplyPayment(1, decimal.NewFromInt(100), "Cash", "", testNow)
	require.NoError(t, err)

	assert.True(t, inv.RemainingAmount().Equal(decimal.NewFromInt(400)))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, []string{EventTypePaymentLogged}, eventTypes(inv))
}

func TestInvoice_ApplyPayment_StatusDerivation(t *testing.T) {
	tests := []struct {
		name          string
		initial       InvoiceStatus
		dueOffsetDays int
		pay           int64
		want          InvoiceStatus
	}{
		{"unpaid past due becomes overdue", InvoiceStatusUnpaid, -1, 10, InvoiceStatusOverdue},
		{"overdue with future due becomes unpaid", InvoiceStatusOverdue, 5, 10, InvoiceStatusUnpaid},
		{"unpaid future due stays unpaid", InvoiceStatusUnpaid, 5, 10, InvoiceStatusUnpaid},
		{"draft untouched by partial payment", InvoiceStatusDraft, -1, 10, InvoiceStatusDraft},
		{"pending untouched by partial payment", InvoiceStatusPending, -1, 10, InvoiceStatusPending},
		{"cancelled untouched by partial payment", InvoiceStatusCancelled, -1, 10, InvoiceStatusCancelled},
		{"cancelled forced to paid by full payment", InvoiceStatusCancelled, -1, 100, InvoiceStatusPaid},
		{"draft forced to paid by full payment", InvoiceStatusDraft, 5, 100, InvoiceStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := createTestInvoice(t, 100, tt.dueOffsetDays, tt.initial)

			_, err := inv.ApplyPayment(7, decimal.NewFromInt(tt.pay), "Cash", "", testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestInvoice_ApplyPayment_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		method  string
		wantErr string
	}{
		{"overpayment", decimal.NewFromFloat(100.01), "Cash", "Payment amount ($100.01) exceeds the remaining amount ($100.00) for invoice ID 1"},
		{"zero amount", decimal.Zero, "Cash", "Payment amount must be greater than zero"},
		{"negative amount", decimal.NewFromInt(-1), "Cash", "Payment amount must be greater than zero"},
		{"unknown method", decimal.NewFromInt(10), "Bitcoin", "Invalid payment method: Bitcoin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := createTestInvoice(t, 100, 10, InvoiceStatusUnpaid)

			payment, err := inv.ApplyPayment(1, tt.amount, tt.method, "", testNow)
			require.Error(t, err)
			assert.Nil(t, payment)
			assert.True(t, shared.IsInvalidArgument(err))
			assert.Contains(t, err.Error(), tt.wantErr)

			assert.Empty(t, inv.Payments)
			assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
			assert.Empty(t, inv.GetDomainEvents())
		})
	}
}

func TestInvoice_ApplyPayment_MethodIsCaseInsensitive(t *testing.T) {
	inv := createTestInvoice(t, 100, 10, InvoiceStatusUnpaid)

	payment, err := inv.ApplyPayment(1, decimal.NewFromInt(10), "bankTRANSFER", "wire-77", testNow)
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodBankTransfer, payment.Method)
	assert.Equal(t, "wire-77", payment.Reference)
}

func TestInvoice_AmountsStayConsistent(t *testing.T) {
	inv := createTestInvoice(t, 1000, 10, InvoiceStatusUnpaid)

	for i, amt := range []float64{100, 250.5, 49.5, 600} {
		_, err := inv.ApplyPayment(int64(i+1), decimal.NewFromFloat(amt), "Debit", "", testNow)
		require.NoError(t, err)
		assert.True(t, inv.RemainingAmount().Add(inv.PaidAmount()).Equal(inv.Amount))
	}
	assert.True(t, inv.RemainingAmount().IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestInvoice_PaymentHistoryNewestFirst(t *testing.T) {
	inv := createTestInvoice(t, 1000, 10, InvoiceStatusUnpaid)

	_, err := inv.ApplyPayment(1, decimal.NewFromInt(10), "Cash", "", testNow.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = inv.ApplyPayment(2, decimal.NewFromInt(10), "Cash", "", testNow)
	require.NoError(t, err)
	_, err = inv.ApplyPayment(3, decimal.NewFromInt(10), "Cash", "", testNow.Add(-time.Hour))
	require.NoError(t, err)

	history := inv.PaymentHistory()
	require.Len(t, history, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{history[0].ID, history[1].ID, history[2].ID})

	// owned order is untouched
	assert.Equal(t, int64(1), inv.Payments[0].ID)
}

func TestInvoice_FindPayment(t *testing.T) {
	inv := createTestInvoice(t, 100, 10, InvoiceStatusUnpaid)
	_, err := inv.ApplyPayment(9, decimal.NewFromInt(10), "Check", "", testNow)
	require.NoError(t, err)

	p, ok := inv.FindPayment(9)
	assert.True(t, ok)
	assert.Equal(t, PaymentMethodCheck, p.Method)

	_, ok = inv.FindPayment(10)
	assert.False(t, ok)
}
