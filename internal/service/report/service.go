package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/peoplemesh/hrops-console-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Service builds the monthly timesheet report for the finance export surface
// and renders it as CSV or PDF.
type Service struct {
	timesheets timesheet.Client
	now        func() time.Time
}

func NewService(timesheets timesheet.Client) *Service {
	return &Service{
		timesheets: timesheets,
		now:        time.Now,
	}
}

// Monthly aggregates the month's entries per employee. Rows are ordered by
// employee name so repeated exports are stable.
func (s *Service) Monthly(ctx context.Context, year int, month time.Month) (timesheet.MonthlyReport, error) {
	if month < time.January || month > time.December {
		return timesheet.MonthlyReport{}, fmt.Errorf("invalid month %d", month)
	}

	entries, err := s.timesheets.Monthly(ctx, year, month)
	if err != nil {
		return timesheet.MonthlyReport{}, fmt.Errorf("failed to fetch timesheet entries: %w", err)
	}

	byEmployee := make(map[string]*timesheet.ReportRow)
	total := decimal.Zero
	for _, entry := range entries {
		row, ok := byEmployee[entry.EmployeeID]
		if !ok {
			row = &timesheet.ReportRow{
				EmployeeID:   entry.EmployeeID,
				EmployeeName: entry.EmployeeName,
			}
			byEmployee[entry.EmployeeID] = row
		}
		row.WorkedHours = row.WorkedHours.Add(entry.Hours)
		if entry.Billable {
			row.BillableHours = row.BillableHours.Add(entry.Hours)
		}
		row.EntryCount++
		total = total.Add(entry.Hours)
	}

	rows := make([]timesheet.ReportRow, 0, len(byEmployee))
	for _, row := range byEmployee {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})

	return timesheet.MonthlyReport{
		Year:        year,
		Month:       month,
		GeneratedAt: s.now(),
		Rows:        rows,
		TotalHours:  total,
	}, nil
}

// WriteCSV renders the report with a header row and a trailing total line.
func (s *Service) WriteCSV(report timesheet.MonthlyReport, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"employee_id", "employee_name", "worked_hours", "billable_hours", "entries"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{
			row.EmployeeID,
			row.EmployeeName,
			row.WorkedHours.StringFixed(2),
			row.BillableHours.StringFixed(2),
			fmt.Sprintf("%d", row.EntryCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	if err := cw.Write([]string{"total", "", report.TotalHours.StringFixed(2), "", ""}); err != nil {
		return fmt.Errorf("failed to write csv total: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WritePDF renders the report as a single-page-per-overflow A4 table.
func (s *Service) WritePDF(report timesheet.MonthlyReport, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Timesheet Report %s %d", report.Month, report.Year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Employee", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Worked", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Billable", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Entries", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.Rows {
		name := row.EmployeeName
		if name == "" {
			name = row.EmployeeID
		}
		pdf.CellFormat(60, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, row.WorkedHours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, row.BillableHours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.EntryCount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, report.TotalHours.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
