package event

import (
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func paidInvoice(t *testing.T) (*invoicing.Invoice, *invoicing.Payment) {
	t.Helper()
	inv, err := invoicing.NewInvoice(1, invoicing.InvoiceTerms{
		ClientID:  "CLIENT001",
		Amount:    decimal.NewFromInt(1000),
		Currency:  valueobject.EUR,
		IssueDate: eventTime.AddDate(0, 0, -5),
		DueDate:   eventTime.AddDate(0, 0, 25),
	}, eventTime)
	require.NoError(t, err)
	payment, err := inv.ApplyPayment(1, decimal.NewFromInt(1000), "Cash", "R-1", eventTime)
	require.NoError(t, err)
	return inv, payment
}

func TestRegisterAllEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	for _, eventType := range []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoicePaid,
		invoicing.EventTypeInvoiceStatusChanged,
		invoicing.EventTypePaymentLogged,
		invoicing.EventTypeReceiptIssued,
	} {
		assert.True(t, s.IsRegistered(eventType), eventType)
	}
	assert.False(t, s.IsRegistered("Unknown"))
}

func TestEventSerializer_Serialize(t *testing.T) {
	s := NewEventSerializer()
	RegisterAllEvents(s)

	inv, payment := paidInvoice(t)
	data, err := s.Serialize(invoicing.NewPaymentLoggedEvent(inv, payment))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currency":"EUR"`)
	assert.Contains(t, string(data), `"amount":"1000"`)
}

func TestEventSerializer_RejectsUnregisteredType(t *testing.T) {
	s := NewEventSerializer()
	s.Register(invoicing.EventTypeInvoiceCreated)

	inv, payment := paidInvoice(t)
	_, err := s.Serialize(invoicing.NewPaymentLoggedEvent(inv, payment))
	assert.EqualError(t, err, "unknown event type: PaymentLogged")
}
