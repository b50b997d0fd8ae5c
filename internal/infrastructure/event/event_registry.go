package event

import "github.com/billing/backend/internal/domain/invoicing"

// RegisterAllEvents registers every billing event type with serializer
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoiceStatusChanged,
		invoicing.EventTypeInvoicePaid,
		invoicing.EventTypePaymentLogged,
		invoicing.EventTypeReceiptIssued,
	)
}
