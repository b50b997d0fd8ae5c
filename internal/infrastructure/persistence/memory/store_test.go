package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appinvoicing "github.com/billing/backend/internal/application/invoicing"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedTime = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

func newTestInvoice(t *testing.T, id int64, clientID string) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(id, invoicing.InvoiceTerms{
		ClientID:  clientID,
		Amount:    decimal.NewFromInt(100),
		IssueDate: seedTime,
		DueDate:   seedTime.AddDate(0, 0, 30),
	}, seedTime)
	require.NoError(t, err)
	return inv
}

func TestStore_NextIDIsMonotonicPerCollection(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.Equal(t, int64(1), store.Invoices().NextID(ctx))
	assert.Equal(t, int64(2), store.Invoices().NextID(ctx))
	assert.Equal(t, int64(1), store.Payments().NextID(ctx))
	assert.Equal(t, int64(1), store.Receipts().NextID(ctx))
	assert.Equal(t, int64(2), store.Receipts().NextID(ctx))
}

func TestInvoiceRepository_FindByID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Invoices()

	inv := newTestInvoice(t, repo.NextID(ctx), "ACME")
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Same(t, inv, found)

	_, err = repo.FindByID(ctx, 99)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Invoice with ID 99 not found", err.Error())
}

func TestInvoiceRepository_FindAllOrderedByID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Invoices()

	for _, id := range []int64{5, 2, 9, 1} {
		require.NoError(t, repo.Save(ctx, newTestInvoice(t, id, "ACME")))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(all))
	for _, inv := range all {
		ids = append(ids, inv.ID)
	}
	assert.Equal(t, []int64{1, 2, 5, 9}, ids)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// explicit ids move the counter forward
	assert.Equal(t, int64(10), repo.NextID(ctx))
}

func TestPaymentAndReceiptRepositories_NotFound(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.Payments().FindByID(ctx, 3)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Payment with ID 3 not found", err.Error())

	_, err = store.Receipts().FindByID(ctx, 4)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Receipt with ID 4 not found", err.Error())
}

func TestStore_PaymentIsSharedWithInvoice(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv := newTestInvoice(t, 1, "ACME")
	require.NoError(t, store.Invoices().Save(ctx, inv))

	payment, err := inv.ApplyPayment(store.Payments().NextID(ctx), decimal.NewFromInt(30), "Cash", "", seedTime)
	require.NoError(t, err)
	require.NoError(t, store.Payments().Save(ctx, payment))

	fromStore, err := store.Payments().FindByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Same(t, inv.Payments[0], fromStore)
}

func TestStore_ExecutePropagatesError(t *testing.T) {
	store := NewStore()
	boom := errors.New("boom")

	err := store.Execute(context.Background(), func(repos appinvoicing.TransactionalRepositories) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestStore_ExecuteRejectsCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Execute(ctx, func(repos appinvoicing.TransactionalRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_ExecuteSerializesIDAllocation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	ids := make(chan int64, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Execute(ctx, func(repos appinvoicing.TransactionalRepositories) error {
				ids <- repos.InvoiceRepo().NextID(ctx)
				return nil
			})
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestSeed(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store, seedTime, valueobject.EUR))

	all, err := store.Invoices().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	first := all[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "CLIENT001", first.ClientID)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, invoicing.InvoiceStatusOverdue, first.Status)
	assert.Equal(t, seedTime.AddDate(0, 0, -30), first.IssueDate)
	assert.Equal(t, seedTime.AddDate(0, 0, -10), first.DueDate)
	assert.Equal(t, valueobject.EUR, first.Currency)
	assert.Empty(t, first.GetDomainEvents())

	second := all[1]
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "CLIENT002", second.ClientID)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, invoicing.InvoiceStatusUnpaid, second.Status)
	assert.Equal(t, seedTime.AddDate(0, 0, 15), second.DueDate)
}
