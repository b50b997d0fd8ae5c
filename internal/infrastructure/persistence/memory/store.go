// Package memory provides the process-local record store for invoices,
// payments and receipts.
package memory

import (
	"context"
	"sort"
	"sync"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
)

// Store holds the three id-keyed collections and their id counters.
// A single mutex serializes every unit of work and every standalone
// repository call.
type Store struct {
	mu sync.Mutex

	invoices map[int64]*invoicing.Invoice
	payments map[int64]*invoicing.Payment
	receipts map[int64]*invoicing.Receipt

	lastInvoiceID int64
	lastPaymentID int64
	lastReceiptID int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		invoices: make(map[int64]*invoicing.Invoice),
		payments: make(map[int64]*invoicing.Payment),
		receipts: make(map[int64]*invoicing.Receipt),
	}
}

// Execute runs fn with exclusive access to the store.
// Implements the application TransactionScope.
func (s *Store) Execute(ctx context.Context, fn func(repos appinvoicing.TransactionalRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&transactionalRepositories{store: s})
}

// Invoices returns a standalone invoice repository that locks per call
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{store: s}
}

// Payments returns a standalone payment repository that locks per call
func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{store: s}
}

// Receipts returns a standalone receipt repository that locks per call
func (s *Store) Receipts() *ReceiptRepository {
	return &ReceiptRepository{store: s}
}

// acquire locks the store unless the caller already holds it
func (s *Store) acquire(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// transactionalRepositories hands out repositories bound to a held lock
type transactionalRepositories struct {
	store *Store
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *transactionalRepositories) InvoiceRepo() invoicing.InvoiceRepository {
	return &InvoiceRepository{store: r.store, held: true}
}

// PaymentRepo returns the payment repository scoped to the current transaction.
func (r *transactionalRepositories) PaymentRepo() invoicing.PaymentRepository {
	return &PaymentRepository{store: r.store, held: true}
}

// ReceiptRepo returns the receipt repository scoped to the current transaction.
func (r *transactionalRepositories) ReceiptRepo() invoicing.ReceiptRepository {
	return &ReceiptRepository{store: r.store, held: true}
}

// ===================== Invoices =====================

// InvoiceRepository implements invoicing.InvoiceRepository over the store
type InvoiceRepository struct {
	store *Store
	held  bool
}

// NextID allocates the next invoice id
func (r *InvoiceRepository) NextID(ctx context.Context) int64 {
	defer r.store.acquire(r.held)()
	r.store.lastInvoiceID++
	return r.store.lastInvoiceID
}

// FindByID finds an invoice by ID
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*invoicing.Invoice, error) {
	defer r.store.acquire(r.held)()
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, shared.NewNotFoundError(invoicing.InvoiceNotFoundMessage(id))
	}
	return inv, nil
}

// FindAll returns every invoice ordered by ID
func (r *InvoiceRepository) FindAll(ctx context.Context) ([]*invoicing.Invoice, error) {
	defer r.store.acquire(r.held)()
	invoices := make([]*invoicing.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		invoices = append(invoices, inv)
	}
	sort.Slice(invoices, func(a, b int) bool {
		return invoices[a].ID < invoices[b].ID
	})
	return invoices, nil
}

// Count returns the number of stored invoices
func (r *InvoiceRepository) Count(ctx context.Context) (int, error) {
	defer r.store.acquire(r.held)()
	return len(r.store.invoices), nil
}

// Save creates or updates an invoice
func (r *InvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	defer r.store.acquire(r.held)()
	r.store.invoices[invoice.ID] = invoice
	if invoice.ID > r.store.lastInvoiceID {
		r.store.lastInvoiceID = invoice.ID
	}
	return nil
}

// ===================== Payments =====================

// PaymentRepository implements invoicing.PaymentRepository over the store
type PaymentRepository struct {
	store *Store
	held  bool
}

// NextID allocates the next payment id
func (r *PaymentRepository) NextID(ctx context.Context) int64 {
	defer r.store.acquire(r.held)()
	r.store.lastPaymentID++
	return r.store.lastPaymentID
}

// FindByID finds a payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*invoicing.Payment, error) {
	defer r.store.acquire(r.held)()
	payment, ok := r.store.payments[id]
	if !ok {
		return nil, shared.NewNotFoundError(invoicing.PaymentNotFoundMessage(id))
	}
	return payment, nil
}

// Save stores a payment
func (r *PaymentRepository) Save(ctx context.Context, payment *invoicing.Payment) error {
	defer r.store.acquire(r.held)()
	r.store.payments[payment.ID] = payment
	if payment.ID > r.store.lastPaymentID {
		r.store.lastPaymentID = payment.ID
	}
	return nil
}

// ===================== Receipts =====================

// ReceiptRepository implements invoicing.ReceiptRepository over the store
type ReceiptRepository struct {
	store *Store
	held  bool
}

// NextID allocates the next receipt id
func (r *ReceiptRepository) NextID(ctx context.Context) int64 {
	defer r.store.acquire(r.held)()
	r.store.lastReceiptID++
	return r.store.lastReceiptID
}

// FindByID finds a receipt by ID
func (r *ReceiptRepository) FindByID(ctx context.Context, id int64) (*invoicing.Receipt, error) {
	defer r.store.acquire(r.held)()
	receipt, ok := r.store.receipts[id]
	if !ok {
		return nil, shared.NewNotFoundError(invoicing.ReceiptNotFoundMessage(id))
	}
	return receipt, nil
}

// Save stores a receipt
func (r *ReceiptRepository) Save(ctx context.Context, receipt *invoicing.Receipt) error {
	defer r.store.acquire(r.held)()
	r.store.receipts[receipt.ID] = receipt
	if receipt.ID > r.store.lastReceiptID {
		r.store.lastReceiptID = receipt.ID
	}
	return nil
}

// Ensure Store implements TransactionScope
var _ appinvoicing.TransactionScope = (*Store)(nil)

// Ensure repositories implement the domain ports
var (
	_ invoicing.InvoiceRepository = (*InvoiceRepository)(nil)
	_ invoicing.PaymentRepository = (*PaymentRepository)(nil)
	_ invoicing.ReceiptRepository = (*ReceiptRepository)(nil)
)
