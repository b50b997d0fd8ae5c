package invoicing

import (
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptNumberPrefix is the leading segment of every receipt number
const ReceiptNumberPrefix = "RCP"

// Receipt is an issued proof of payment. Client, amount and method are copied
// from the invoice and payment at issue time and never change afterwards.
type Receipt struct {
	shared.BaseAggregateRoot
	ID            int64
	ReceiptNumber string
	InvoiceID     int64
	PaymentID     int64
	ClientID      string
	Amount        decimal.Decimal
	Method        PaymentMethod
	IssueDate     time.Time
}

// GetID returns the receipt ID
func (r *Receipt) GetID() int64 {
	return r.ID
}

// ValidateReceiptSource checks that payment can be receipted against invoice
func ValidateReceiptSource(invoice *Invoice, payment *Payment) error {
	if !payment.BelongsTo(invoice.ID) {
		return shared.NewInvalidArgumentError("Payment does not belong to the specified invoice")
	}
	if _, err := ParsePaymentMethod(payment.Method.String()); err != nil {
		return err
	}
	return nil
}

// NewReceipt issues a receipt for payment. The receipt number is derived from
// the issue date and the receipt's own id.
func NewReceipt(id int64, invoice *Invoice, payment *Payment, now time.Time) (*Receipt, error) {
	if err := ValidateReceiptSource(invoice, payment); err != nil {
		return nil, err
	}

	r := &Receipt{
		ID:            id,
		ReceiptNumber: FormatReceiptNumber(now, id),
		InvoiceID:     invoice.ID,
		PaymentID:     payment.ID,
		ClientID:      invoice.ClientID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		IssueDate:     now,
	}

	r.AddDomainEvent(NewReceiptIssuedEvent(r))

	return r, nil
}

// FormatReceiptNumber renders RCP-YYYYMMDD-NNNN
func FormatReceiptNumber(issueDate time.Time, sequence int64) string {
	return fmt.Sprintf("%s-%s-%04d", ReceiptNumberPrefix, issueDate.Format("20060102"), sequence)
}

// ReceiptNotFoundMessage is the message used when a receipt id does not resolve
func ReceiptNotFoundMessage(id int64) string {
	return fmt.Sprintf("Receipt with ID %d not found", id)
}
