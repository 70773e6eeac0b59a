package timesheet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one logged timesheet line fetched from the HR backend.
type Entry struct {
	EmployeeID   string
	EmployeeName string
	ProjectCode  string
	Date         time.Time
	Hours        decimal.Decimal
	Billable     bool
}

// ReportRow aggregates one employee's month.
type ReportRow struct {
	EmployeeID    string
	EmployeeName  string
	WorkedHours   decimal.Decimal
	BillableHours decimal.Decimal
	EntryCount    int
}

// MonthlyReport is the finance view of a month of timesheets.
type MonthlyReport struct {
	Year        int
	Month       time.Month
	GeneratedAt time.Time
	Rows        []ReportRow
	TotalHours  decimal.Decimal
}

// Client fetches timesheet entries from the HR backend.
type Client interface {
	Monthly(ctx context.Context, year int, month time.Month) ([]Entry, error)
}
