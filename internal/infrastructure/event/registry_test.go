package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_GetHandlers(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()

	r.Register(typed, "InvoicePaid", "InvoiceCreated")
	r.Register(wildcard)

	handlers := r.GetHandlers("InvoicePaid")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])

	assert.Len(t, r.GetHandlers("ReceiptIssued"), 1)
	assert.Len(t, r.GetAllHandlers(), 2)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	r := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()

	r.Register(a, "InvoicePaid")
	r.Register(b, "InvoicePaid")
	r.Register(a)

	r.Unregister(a)

	handlers := r.GetHandlers("InvoicePaid")
	assert.Len(t, handlers, 1)
	assert.Same(t, b, handlers[0])

	r.Unregister(b)
	assert.Empty(t, r.GetHandlers("InvoicePaid"))
	assert.Empty(t, r.GetAllHandlers())
}
