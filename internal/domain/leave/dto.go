package leave

import (
	"github.com/peoplemesh/hrops-console-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Action is the decision applied to a leave request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

// RequiresComment reports whether the action must carry a manager comment.
func (a Action) RequiresComment() bool {
	return a == ActionReject || a == ActionCancel
}

func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionReject, ActionCancel:
		return true
	}
	return false
}

type DecisionRequest struct {
	ManagerID string `json:"managerId"`
	LeaveID   string `json:"leaveId"`
	Comment   string `json:"comment,omitempty"`
}

func (r *DecisionRequest) Validate(action Action) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "managerId",
			Message: "managerId is required",
		})
	}

	if validator.IsEmpty(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveId",
			Message: "leaveId is required",
		})
	}

	if action.RequiresComment() && validator.IsEmpty(r.Comment) {
		errs = append(errs, validator.ValidationError{
			Field:   "comment",
			Message: "comment is required when rejecting or cancelling",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BatchDecisionRequest struct {
	ManagerID string   `json:"managerId"`
	LeaveIDs  []string `json:"leaveIds"`

	// Comments is keyed by leave ID. Reject batches require an entry for
	// every selected ID before anything is sent upstream.
	Comments map[string]string `json:"comments,omitempty"`
}

func (r *BatchDecisionRequest) Validate(action Action) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "managerId",
			Message: "managerId is required",
		})
	}

	if len(r.LeaveIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "leaveIds",
			Message: "at least one leave request must be selected",
		})
	}

	if action == ActionReject {
		for _, id := range r.LeaveIDs {
			if validator.IsEmpty(r.Comments[id]) {
				errs = append(errs, validator.ValidationError{
					Field:   "comments." + id,
					Message: "a rejection comment is required for every selected request",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateLeaveRequestRequest carries the full mutable projection of a leave
// request for PUT /leave-requests/update. DaysRequested is filled in by the
// service from a fresh recomputation, never taken from the caller.
type UpdateLeaveRequestRequest struct {
	LeaveID        string          `json:"leaveId"`
	EmployeeID     string          `json:"employeeId"`
	ManagerID      string          `json:"managerId"`
	LeaveTypeID    string          `json:"leaveTypeId"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	DaysRequested  decimal.Decimal `json:"daysRequested"`
	StartSession   Session         `json:"startSession"`
	EndSession     Session         `json:"endSession"`
	Reason         string          `json:"reason"`
	ManagerComment *string         `json:"managerComment,omitempty"`
	DriveLink      *string         `json:"driveLink,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, value := range map[string]string{
		"leaveId":     r.LeaveID,
		"employeeId":  r.EmployeeID,
		"managerId":   r.ManagerID,
		"leaveTypeId": r.LeaveTypeID,
	} {
		if validator.IsEmpty(value) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " is required",
			})
		}
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must be a valid date (YYYY-MM-DD)",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must be a valid date (YYYY-MM-DD)",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if !r.StartSession.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "startSession",
			Message: "startSession must be one of none, fullday, first, second",
		})
	}
	if !r.EndSession.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "endSession",
			Message: "endSession must be one of none, fullday, first, second",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RequestFilter narrows list queries against the HR backend.
type RequestFilter struct {
	ManagerID string
	Status    Status
}

type LeaveRequestResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	ManagerID      string          `json:"manager_id"`
	LeaveTypeID    string          `json:"leave_type_id"`
	LeaveTypeName  *string         `json:"leave_type_name,omitempty"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	StartSession   Session         `json:"start_session"`
	EndSession     Session         `json:"end_session"`
	DaysRequested  decimal.Decimal `json:"days_requested"`
	Status         Status          `json:"status"`
	Reason         string          `json:"reason"`
	ManagerComment *string         `json:"manager_comment,omitempty"`
	DriveLink      *string         `json:"drive_link,omitempty"`
}

// ToResponse converts an entity to its wire projection.
func ToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		ManagerID:      r.ManagerID,
		LeaveTypeID:    r.LeaveTypeID,
		LeaveTypeName:  r.LeaveTypeName,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		StartSession:   r.StartSession,
		EndSession:     r.EndSession,
		DaysRequested:  r.DaysRequested,
		Status:         r.Status,
		Reason:         r.Reason,
		ManagerComment: r.ManagerComment,
		DriveLink:      r.DriveLink,
	}
}
