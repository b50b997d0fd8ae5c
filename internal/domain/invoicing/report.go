package invoicing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter echo values used when a dimension was not supplied
const (
	FilterDateNotApplied  = "N/A"
	FilterValueNotApplied = "All"
)

// ReportDateLayout is the layout used to echo date filters
const ReportDateLayout = "2006-01-02"

// ReportFilter selects invoices for a summary report. All dimensions are
// optional and combined conjunctively.
type ReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    InvoiceStatus
	ClientID  string
}

// NewReportFilter builds a filter, rejecting status values outside the enumeration
func NewReportFilter(startDate, endDate *time.Time, status, clientID string) (ReportFilter, error) {
	f := ReportFilter{
		StartDate: startDate,
		EndDate:   endDate,
		ClientID:  clientID,
	}
	if status != "" {
		s, err := ParseInvoiceStatus(status)
		if err != nil {
			return ReportFilter{}, err
		}
		f.Status = s
	}
	return f, nil
}

// Matches reports whether the invoice passes every supplied dimension.
// Date bounds are inclusive and compared against the issue date.
func (f ReportFilter) Matches(inv *Invoice) bool {
	if f.StartDate != nil && inv.IssueDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && inv.IssueDate.After(*f.EndDate) {
		return false
	}
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	return true
}

// Applied returns the filter echo carried by the report
func (f ReportFilter) Applied() AppliedFilters {
	applied := AppliedFilters{
		StartDate: FilterDateNotApplied,
		EndDate:   FilterDateNotApplied,
		Status:    FilterValueNotApplied,
		ClientID:  FilterValueNotApplied,
	}
	if f.StartDate != nil {
		applied.StartDate = f.StartDate.Format(ReportDateLayout)
	}
	if f.EndDate != nil {
		applied.EndDate = f.EndDate.Format(ReportDateLayout)
	}
	if f.Status != "" {
		applied.Status = f.Status.String()
	}
	if f.ClientID != "" {
		applied.ClientID = f.ClientID
	}
	return applied
}

// EmptyResultMessage describes the filter for a report with no matching invoices
func (f ReportFilter) EmptyResultMessage() string {
	var b strings.Builder
	b.WriteString("No invoices found")
	if f.ClientID != "" {
		fmt.Fprintf(&b, " for client '%s'", f.ClientID)
	}
	if f.StartDate != nil || f.EndDate != nil {
		b.WriteString(" in the specified date range")
		if f.StartDate != nil {
			fmt.Fprintf(&b, " from %s", f.StartDate.Format(ReportDateLayout))
		}
		if f.EndDate != nil {
			fmt.Fprintf(&b, " to %s", f.EndDate.Format(ReportDateLayout))
		}
	}
	if f.Status != "" {
		fmt.Fprintf(&b, " with status '%s'", f.Status)
	}
	return b.String()
}

// AppliedFilters echoes the filters a report was generated with
type AppliedFilters struct {
	StartDate string
	EndDate   string
	Status    string
	ClientID  string
}

// SummaryItem is the per-invoice line of a report
type SummaryItem struct {
	InvoiceID       int64
	ClientID        string
	Amount          decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          InvoiceStatus
	IssueDate       time.Time
	DueDate         time.Time
}

// Statistics aggregates the items of a report
type Statistics struct {
	TotalInvoices    int
	TotalAmount      decimal.Decimal
	TotalPaid        decimal.Decimal
	TotalOutstanding decimal.Decimal
	StatusBreakdown  map[InvoiceStatus]int
}

// Report is a summary computed on demand and never stored
type Report struct {
	GeneratedAt time.Time
	Filters     AppliedFilters
	Items       []SummaryItem
	Statistics  Statistics
}

// IsEmpty returns true if no invoice matched the filter
func (r *Report) IsEmpty() bool {
	return len(r.Items) == 0
}

// BuildReport filters invoices and aggregates the matches. Items are ordered by invoice id.
func BuildReport(invoices []*Invoice, filter ReportFilter, now time.Time) *Report {
	report := &Report{
		GeneratedAt: now,
		Filters:     filter.Applied(),
		Items:       make([]SummaryItem, 0),
		Statistics: Statistics{
			TotalAmount:      decimal.Zero,
			TotalPaid:        decimal.Zero,
			TotalOutstanding: decimal.Zero,
			StatusBreakdown:  make(map[InvoiceStatus]int),
		},
	}

	for _, inv := range invoices {
		if !filter.Matches(inv) {
			continue
		}
		paid := inv.PaidAmount()
		remaining := inv.Amount.Sub(paid)

		report.Items = append(report.Items, SummaryItem{
			InvoiceID:       inv.ID,
			ClientID:        inv.ClientID,
			Amount:          inv.Amount,
			PaidAmount:      paid,
			RemainingAmount: remaining,
			Status:          inv.Status,
			IssueDate:       inv.IssueDate,
			DueDate:         inv.DueDate,
		})

		stats := &report.Statistics
		stats.TotalInvoices++
		stats.TotalAmount = stats.TotalAmount.Add(inv.Amount)
		stats.TotalPaid = stats.TotalPaid.Add(paid)
		stats.TotalOutstanding = stats.TotalOutstanding.Add(remaining)
		stats.StatusBreakdown[inv.Status]++
	}

	sort.Slice(report.Items, func(a, b int) bool {
		return report.Items[a].InvoiceID < report.Items[b].InvoiceID
	})

	return report
}
