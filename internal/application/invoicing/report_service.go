package invoicing

import (
	"context"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/infrastructure/telemetry"
)

// ReportService produces invoice summary reports
type ReportService struct {
	serviceDeps
}

// NewReportService creates a new ReportService
func NewReportService(scope TransactionScope, opts ...ServiceOption) *ReportService {
	return &ReportService{serviceDeps: newServiceDeps(scope, opts)}
}

// GenerateSummary filters the stored invoices and aggregates the matches.
// An empty result is not an error; the response carries the descriptive
// message for callers that treat it as one.
func (s *ReportService) GenerateSummary(ctx context.Context, req InvoiceReportRequest) (*InvoiceReportResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "generate_summary")
	defer span.End()

	filter, err := invoicing.NewReportFilter(req.StartDate, req.EndDate, req.Status, req.ClientID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var resp InvoiceReportResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindAll(ctx)
		if err != nil {
			return err
		}
		report := invoicing.BuildReport(invoices, filter, s.now())
		resp = ToInvoiceReportResponse(report, filter)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, "report_invoice_count", resp.Statistics.TotalInvoices)
	return &resp, nil
}

// LedgerProvider exposes the unfiltered summary as ledger snapshots for the
// business metrics gauges. Every invoice status is present in the snapshot,
// with zero for statuses that have no invoices.
func (s *ReportService) LedgerProvider() telemetry.LedgerProvider {
	return telemetry.LedgerProviderFunc(func(ctx context.Context) (telemetry.LedgerSnapshot, error) {
		report, err := s.GenerateSummary(ctx, InvoiceReportRequest{})
		if err != nil {
			return telemetry.LedgerSnapshot{}, err
		}

		byStatus := make(map[string]int, len(invoicing.AllInvoiceStatuses()))
		for _, status := range invoicing.AllInvoiceStatuses() {
			byStatus[status.String()] = report.Statistics.StatusBreakdown[status.String()]
		}
		return telemetry.LedgerSnapshot{
			Currency: s.currency.String(),
			// gauge values are float64
			Outstanding:      report.Statistics.TotalOutstanding.InexactFloat64(),
			InvoicesByStatus: byStatus,
		}, nil
	})
}
