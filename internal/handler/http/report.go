package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/handler/http/response"
	reportService "github.com/peoplemesh/hrops-console-go/internal/service/report"
)

type ReportHandler interface {
	MonthlyTimesheet(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reports *reportService.Service
}

func NewReportHandler(reports *reportService.Service) ReportHandler {
	return &reportHandlerImpl{reports: reports}
}

// MonthlyTimesheet serves the monthly report as JSON, CSV or PDF depending on
// the format query parameter.
func (h *reportHandlerImpl) MonthlyTimesheet(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	monthNum, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		response.BadRequest(w, "month must be between 1 and 12", nil)
		return
	}
	month := time.Month(monthNum)

	report, err := h.reports.Monthly(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="timesheets-%04d-%02d.csv"`, year, monthNum))
		if err := h.reports.WriteCSV(report, w); err != nil {
			response.InternalServerError(w, "Failed to render CSV")
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="timesheets-%04d-%02d.pdf"`, year, monthNum))
		if err := h.reports.WritePDF(report, w); err != nil {
			response.InternalServerError(w, "Failed to render PDF")
		}
	default:
		response.Success(w, report)
	}
}
