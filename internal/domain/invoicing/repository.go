package invoicing

import "context"

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// NextID allocates the next invoice id
	NextID(ctx context.Context) int64

	// FindByID finds an invoice by ID, returning a NOT_FOUND domain error when absent
	FindByID(ctx context.Context, id int64) (*Invoice, error)

	// FindAll returns every invoice ordered by ID
	FindAll(ctx context.Context) ([]*Invoice, error)

	// Count returns the number of stored invoices
	Count(ctx context.Context) (int, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error
}

// PaymentRepository defines the interface for the flat payment index
type PaymentRepository interface {
	// NextID allocates the next payment id
	NextID(ctx context.Context) int64

	// FindByID finds a payment by ID, returning a NOT_FOUND domain error when absent
	FindByID(ctx context.Context, id int64) (*Payment, error)

	// Save stores a payment
	Save(ctx context.Context, payment *Payment) error
}

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// NextID allocates the next receipt id
	NextID(ctx context.Context) int64

	// FindByID finds a receipt by ID, returning a NOT_FOUND domain error when absent
	FindByID(ctx context.Context, id int64) (*Receipt, error)

	// Save stores a receipt
	Save(ctx context.Context, receipt *Receipt) error
}
