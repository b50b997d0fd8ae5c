package invoicing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// serviceDeps holds the collaborators shared by every invoicing service
type serviceDeps struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	clock     func() time.Time
	currency  valueobject.Currency
}

// ServiceOption is a functional option for configuring the invoicing services
type ServiceOption func(*serviceDeps)

// WithEventPublisher sets the publisher that receives domain events after each unit of work
func WithEventPublisher(publisher shared.EventPublisher) ServiceOption {
	return func(d *serviceDeps) {
		d.publisher = publisher
	}
}

// WithClock overrides the time source used for payment, receipt and report timestamps
func WithClock(clock func() time.Time) ServiceOption {
	return func(d *serviceDeps) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithCurrency sets the currency assigned to new invoices
func WithCurrency(currency valueobject.Currency) ServiceOption {
	return func(d *serviceDeps) {
		if currency != "" {
			d.currency = currency
		}
	}
}

func newServiceDeps(scope TransactionScope, opts []ServiceOption) serviceDeps {
	d := serviceDeps{
		scope:    scope,
		clock:    time.Now,
		currency: valueobject.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d *serviceDeps) now() time.Time {
	return d.clock()
}

// publishEvents hands collected events to the publisher. The unit of work has
// already completed, so a publish failure is logged and not returned.
func (d *serviceDeps) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if d.publisher == nil || len(events) == 0 {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
