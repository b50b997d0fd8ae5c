package invoicing

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
)

// TransactionScope provides serialized access to the invoicing repositories.
// Every read and write performed inside fn is part of one unit of work: no
// other unit of work observes or interleaves with it.
type TransactionScope interface {
	// Execute runs fn while holding the store for exclusive use.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all invoicing repositories within a transaction.
type TransactionalRepositories interface {
	InvoiceRepo() invoicing.InvoiceRepository
	PaymentRepo() invoicing.PaymentRepository
	ReceiptRepo() invoicing.ReceiptRepository
}
