package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session maps to the half-day session enum on the wire.
type Session string

const (
	SessionNone    Session = "none"
	SessionFullDay Session = "fullday"
	SessionFirst   Session = "first"  // morning half
	SessionSecond  Session = "second" // afternoon half
)

// IsHalf reports whether the session consumes half a day.
func (s Session) IsHalf() bool {
	return s == SessionFirst || s == SessionSecond
}

// Valid reports whether s is one of the known session values.
func (s Session) Valid() bool {
	switch s {
	case SessionNone, SessionFullDay, SessionFirst, SessionSecond:
		return true
	}
	return false
}

// HalfDayConfig describes how the first and last day of a range are consumed.
// Interior days always count as full days regardless of this config.
type HalfDayConfig struct {
	Start Session
	End   Session
}

// Normalize forces the config to {none, none} when the leave type does not
// allow half days.
func (c HalfDayConfig) Normalize(allowHalfDay bool) HalfDayConfig {
	if !allowHalfDay {
		return HalfDayConfig{Start: SessionNone, End: SessionNone}
	}
	return c
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// CanTransitionTo reports whether the status may move to next. Transitions are
// monotonic forward only; REJECTED and CANCELLED are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	}
	return false
}

// LeaveType is configuration data owned by the HR backend. The policy flags
// below are the subset the console consults when editing a request.
type LeaveType struct {
	ID             string
	Name           string
	MaxDaysPerYear int

	AllowHalfDay          bool
	RequiresDocumentation bool

	// ExcludesWeekendsAndHolidays is false for types such as maternity leave
	// that charge every calendar day in the range.
	ExcludesWeekendsAndHolidays bool
}

// LeaveRequest is the console's projection of a leave request. Durable state
// lives in the HR backend; DaysRequested is denormalized there and must never
// be trusted on edit (it is recomputed from the live inputs).
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	ManagerID   string
	LeaveTypeID string

	StartDate    time.Time
	EndDate      time.Time
	StartSession Session
	EndSession   Session

	DaysRequested decimal.Decimal

	Status         Status
	Reason         string
	ManagerComment *string
	DriveLink      *string

	EmployeeName  *string
	LeaveTypeName *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HalfDayConfig returns the request's edge-day sessions as a config value.
func (r LeaveRequest) HalfDayConfig() HalfDayConfig {
	return HalfDayConfig{Start: r.StartSession, End: r.EndSession}
}

// Holiday is an excluded calendar date fetched from the HR backend.
type Holiday struct {
	Date time.Time
	Name string
}
