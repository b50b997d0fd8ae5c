package memory

import (
	"context"
	"time"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// seedInvoice describes a demo invoice relative to the seeding time
type seedInvoice struct {
	clientID   string
	amount     int64
	issuedDays int
	dueInDays  int
	status     invoicing.InvoiceStatus
}

var demoInvoices = []seedInvoice{
	{clientID: "CLIENT001", amount: 1000, issuedDays: -30, dueInDays: -10, status: invoicing.InvoiceStatusOverdue},
	{clientID: "CLIENT002", amount: 500, issuedDays: -15, dueInDays: 15, status: invoicing.InvoiceStatusUnpaid},
}

// Seed loads the demo invoices used for manual testing.
// Dates are relative to now.
func Seed(ctx context.Context, store *Store, now time.Time, currency valueobject.Currency) error {
	return store.Execute(ctx, func(repos appinvoicing.TransactionalRepositories) error {
		for _, s := range demoInvoices {
			inv, err := invoicing.NewInvoice(repos.InvoiceRepo().NextID(ctx), invoicing.InvoiceTerms{
				ClientID:  s.clientID,
				Amount:    decimal.NewFromInt(s.amount),
				Currency:  currency,
				IssueDate: now.AddDate(0, 0, s.issuedDays),
				DueDate:   now.AddDate(0, 0, s.dueInDays),
				Status:    s.status.String(),
			}, now)
			if err != nil {
				return err
			}
			inv.ClearDomainEvents()
			if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
}
