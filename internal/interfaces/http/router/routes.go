package router

import (
	"github.com/billing/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the handlers served by the billing API
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Payment *handler.PaymentHandler
	Receipt *handler.ReceiptHandler
	System  *handler.SystemHandler
}

// SetupRoutes registers /health on the engine root and the billing
// resources under /api/v1.
func SetupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))

	r.Register(NewDomainGroup("invoices", "/invoices").
		POST("", h.Invoice.Create).
		GET("", h.Invoice.List).
		PUT("/status", h.Invoice.UpdateStatus).
		POST("/report", h.Invoice.GenerateReport).
		GET("/:id", h.Invoice.GetByID).
		GET("/:id/status", h.Invoice.GetStatus).
		GET("/:id/payment-history", h.Invoice.GetPaymentHistory))

	r.Register(NewDomainGroup("payments", "/payments").
		POST("/log", h.Payment.Log).
		GET("/:id", h.Payment.GetByID))

	r.Register(NewDomainGroup("receipts", "/receipts").
		POST("/generate", h.Receipt.Generate).
		GET("/:id", h.Receipt.GetByID))

	r.Register(NewDomainGroup("system", "").
		GET("/ping", h.System.Ping).
		GET("/system/info", h.System.GetSystemInfo))

	r.Setup()
}
