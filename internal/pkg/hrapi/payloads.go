package hrapi

import (
	"fmt"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type leaveRequestPayload struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	ManagerID      string          `json:"managerId"`
	LeaveTypeID    string          `json:"leaveTypeId"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	StartSession   leave.Session   `json:"startSession"`
	EndSession     leave.Session   `json:"endSession"`
	DaysRequested  decimal.Decimal `json:"daysRequested"`
	Status         leave.Status    `json:"status"`
	Reason         string          `json:"reason"`
	ManagerComment *string         `json:"managerComment"`
	DriveLink      *string         `json:"driveLink"`
	EmployeeName   *string         `json:"employeeName"`
	LeaveTypeName  *string         `json:"leaveTypeName"`
	CreatedAt      *time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt"`
}

func (p leaveRequestPayload) toEntity() (leave.LeaveRequest, error) {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("invalid start date %q: %w", p.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("invalid end date %q: %w", p.EndDate, err)
	}

	entity := leave.LeaveRequest{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		ManagerID:      p.ManagerID,
		LeaveTypeID:    p.LeaveTypeID,
		StartDate:      start,
		EndDate:        end,
		StartSession:   p.StartSession,
		EndSession:     p.EndSession,
		DaysRequested:  p.DaysRequested,
		Status:         p.Status,
		Reason:         p.Reason,
		ManagerComment: p.ManagerComment,
		DriveLink:      p.DriveLink,
		EmployeeName:   p.EmployeeName,
		LeaveTypeName:  p.LeaveTypeName,
	}
	if p.CreatedAt != nil {
		entity.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		entity.UpdatedAt = *p.UpdatedAt
	}
	return entity, nil
}

type leaveTypePayload struct {
	ID                          string `json:"id"`
	Name                        string `json:"name"`
	MaxDaysPerYear              int    `json:"maxDaysPerYear"`
	AllowHalfDay                bool   `json:"allowHalfDay"`
	RequiresDocumentation       bool   `json:"requiresDocumentation"`
	ExcludesWeekendsAndHolidays bool   `json:"excludesWeekendsAndHolidays"`
}

type holidayPayload struct {
	HolidayDate string `json:"holidayDate"`
	Name        string `json:"name"`
}

type timesheetEntryPayload struct {
	EmployeeID   string          `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	ProjectCode  string          `json:"projectCode"`
	Date         string          `json:"date"`
	Hours        decimal.Decimal `json:"hours"`
	Billable     bool            `json:"billable"`
}
