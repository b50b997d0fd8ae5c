package invoicing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCredit       PaymentMethod = "Credit"
	PaymentMethodDebit        PaymentMethod = "Debit"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCheck        PaymentMethod = "Check"
	PaymentMethodPayPal       PaymentMethod = "PayPal"
)

// AllPaymentMethods returns every accepted method in canonical spelling
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCredit,
		PaymentMethodDebit,
		PaymentMethodBankTransfer,
		PaymentMethodCheck,
		PaymentMethodPayPal,
	}
}

// IsValid checks if the method is an accepted method, ignoring case
func (m PaymentMethod) IsValid() bool {
	_, ok := canonicalMethod(string(m))
	return ok
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// ParsePaymentMethod matches value case-insensitively and returns the canonical method
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	if m, ok := canonicalMethod(value); ok {
		return m, nil
	}
	names := make([]string, 0, len(AllPaymentMethods()))
	for _, m := range AllPaymentMethods() {
		names = append(names, m.String())
	}
	return "", shared.NewInvalidArgumentError(fmt.Sprintf(
		"Invalid payment method: %s. Valid values are: %s", value, strings.Join(names, ", ")))
}

func canonicalMethod(value string) (PaymentMethod, bool) {
	for _, m := range AllPaymentMethods() {
		if strings.EqualFold(value, string(m)) {
			return m, true
		}
	}
	return "", false
}

// Payment is a single amount applied to an invoice. It is immutable once created
// and is shared by the invoice's payment list and the payment store.
type Payment struct {
	ID          int64
	InvoiceID   int64
	Amount      decimal.Decimal
	Method      PaymentMethod
	PaymentDate time.Time
	Reference   string
}

// GetID returns the payment ID
func (p *Payment) GetID() int64 {
	return p.ID
}

// BelongsTo reports whether the payment was applied to the given invoice
func (p *Payment) BelongsTo(invoiceID int64) bool {
	return p.InvoiceID == invoiceID
}

// PaymentNotFoundMessage is the message used when a payment id does not resolve
func PaymentNotFoundMessage(id int64) string {
	return fmt.Sprintf("Payment with ID %d not found", id)
}

func sortPaymentsNewestFirst(payments []*Payment) {
	sort.SliceStable(payments, func(a, b int) bool {
		if payments[a].PaymentDate.Equal(payments[b].PaymentDate) {
			return payments[a].ID > payments[b].ID
		}
		return payments[a].PaymentDate.After(payments[b].PaymentDate)
	})
}
