package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/service/editlock"
	"github.com/shopspring/decimal"
)

// EditSessionResponse tells the console whether the opened edit surface is
// editable and, when it is not, who holds the record.
type EditSessionResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Editable  bool   `json:"editable"`
	LockedBy  string `json:"locked_by,omitempty"`
	Message   string `json:"message,omitempty"`
}

// RequestService orchestrates the leave-request edit workflow: lock-gated
// edit sessions and updates with a fresh chargeable-day recomputation.
type RequestService struct {
	requests leave.RequestClient
	holidays leave.HolidayClient
	calc     *DayCalculator
	sessions *editlock.Registry

	// Holiday location the console operates in.
	state   string
	country string
}

func NewRequestService(
	requests leave.RequestClient,
	holidays leave.HolidayClient,
	calc *DayCalculator,
	sessions *editlock.Registry,
	state, country string,
) *RequestService {
	return &RequestService{
		requests: requests,
		holidays: holidays,
		calc:     calc,
		sessions: sessions,
		state:    state,
		country:  country,
	}
}

// List proxies the approvals table query to the HR backend.
func (s *RequestService) List(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, error) {
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// Holidays returns the exclusion dates for the configured location.
func (s *RequestService) Holidays(ctx context.Context) ([]leave.Holiday, error) {
	holidays, err := s.holidays.ByLocation(ctx, s.state, s.country)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	return holidays, nil
}

// OpenEdit acquires the record lock for a manager's edit surface. A denied
// lock is not an error: the session still exists so the console can render
// read-only with the holder's name.
func (s *RequestService) OpenEdit(ctx context.Context, recordID, managerID string) (EditSessionResponse, error) {
	if _, err := s.requests.Get(ctx, recordID); err != nil {
		return EditSessionResponse{}, fmt.Errorf("failed to load leave request: %w", err)
	}

	sess, state := s.sessions.Open(ctx, lock.TableLeaveRequest, recordID, managerID)
	return EditSessionResponse{
		SessionID: sess.ID,
		State:     string(state),
		Editable:  state == editlock.StateOwned,
		LockedBy:  sess.Coordinator.Holder(),
		Message:   sess.Coordinator.Message(),
	}, nil
}

// CloseEdit releases the session's lock; closing an unknown session is a
// no-op so a retried close never fails.
func (s *RequestService) CloseEdit(ctx context.Context, sessionID string) error {
	return s.sessions.Close(ctx, sessionID)
}

// Update submits the edited request. The submitted DaysRequested is ignored:
// the count is recomputed from the live dates, sessions and holiday set, with
// half-day sessions dropped when the leave type does not allow them. The
// acting manager must own the record lock through an open edit session.
func (s *RequestService) Update(ctx context.Context, sessionID string, req leave.UpdateLeaveRequestRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return lock.ErrSessionNotFound
	}
	c := sess.Coordinator
	if !c.Owned() || c.RecordID() != req.LeaveID || c.ActorID() != req.ManagerID {
		return lock.ErrEditNotOwned
	}

	current, err := s.requests.Get(ctx, req.LeaveID)
	if err != nil {
		return fmt.Errorf("failed to load leave request: %w", err)
	}
	if current.Status != leave.StatusPending && current.Status != leave.StatusApproved {
		return leave.ErrNotEditable
	}

	leaveType, err := s.requests.GetType(ctx, req.LeaveTypeID)
	if err != nil {
		return fmt.Errorf("failed to load leave type: %w", err)
	}

	cfg := leave.HalfDayConfig{Start: req.StartSession, End: req.EndSession}.
		Normalize(leaveType.AllowHalfDay)
	req.StartSession = cfg.Start
	req.EndSession = cfg.End

	days, err := s.recomputeDays(ctx, req.StartDate, req.EndDate, cfg, leaveType)
	if err != nil {
		return err
	}
	req.DaysRequested = days

	if err := s.requests.Update(ctx, req); err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

func (s *RequestService) recomputeDays(
	ctx context.Context,
	startDate, endDate string,
	cfg leave.HalfDayConfig,
	leaveType leave.LeaveType,
) (days decimal.Decimal, err error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid end date: %w", err)
	}

	var excluded ExclusionSet
	if leaveType.ExcludesWeekendsAndHolidays {
		holidays, err := s.holidays.ByLocation(ctx, s.state, s.country)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to fetch holidays: %w", err)
		}
		excluded = NewExclusionSet(holidays)
	}

	countAllDays := !leaveType.ExcludesWeekendsAndHolidays
	return s.calc.CountChargeableDays(start, end, cfg, excluded, countAllDays), nil
}
