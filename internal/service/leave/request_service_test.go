package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/validator"
	"github.com/peoplemesh/hrops-console-go/internal/repository/memory"
	"github.com/peoplemesh/hrops-console-go/internal/service/editlock"
	locksvc "github.com/peoplemesh/hrops-console-go/internal/service/lock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the HR backend API.
type fakeBackend struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequest
	types    map[string]leave.LeaveType
	holidays []leave.Holiday

	decideCalls int
	batchCalls  int
	updateCalls int
	lastUpdate  leave.UpdateLeaveRequestRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		requests: make(map[string]leave.LeaveRequest),
		types:    make(map[string]leave.LeaveType),
	}
}

func (f *fakeBackend) List(_ context.Context, filter leave.RequestFilter) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeBackend) Get(_ context.Context, id string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeBackend) GetType(_ context.Context, id string) (leave.LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lt, ok := f.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (f *fakeBackend) Decide(_ context.Context, action leave.Action, req leave.DecisionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decideCalls++
	r := f.requests[req.LeaveID]
	r.Status = statusFor(action)
	f.requests[req.LeaveID] = r
	return nil
}

func (f *fakeBackend) DecideBatch(_ context.Context, action leave.Action, req leave.BatchDecisionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	for _, id := range req.LeaveIDs {
		r := f.requests[id]
		r.Status = statusFor(action)
		f.requests[id] = r
	}
	return nil
}

func (f *fakeBackend) Update(_ context.Context, req leave.UpdateLeaveRequestRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastUpdate = req
	return nil
}

func (f *fakeBackend) ByLocation(_ context.Context, _, _ string) ([]leave.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.holidays, nil
}

const (
	annualLeave    = "lt-annual"
	maternityLeave = "lt-maternity"
	noHalfDayLeave = "lt-nohalf"
)

func seedBackend() *fakeBackend {
	backend := newFakeBackend()
	backend.types[annualLeave] = leave.LeaveType{
		ID: annualLeave, Name: "Annual Leave",
		AllowHalfDay: true, ExcludesWeekendsAndHolidays: true,
	}
	backend.types[maternityLeave] = leave.LeaveType{
		ID: maternityLeave, Name: "Maternity Leave",
		AllowHalfDay: false, ExcludesWeekendsAndHolidays: false,
	}
	backend.types[noHalfDayLeave] = leave.LeaveType{
		ID: noHalfDayLeave, Name: "Study Leave",
		AllowHalfDay: false, ExcludesWeekendsAndHolidays: true,
	}
	backend.requests["req-1"] = leave.LeaveRequest{
		ID:            "req-1",
		EmployeeID:    "emp-1",
		ManagerID:     "mgr-1",
		LeaveTypeID:   annualLeave,
		StartDate:     date(2025, time.September, 1),
		EndDate:       date(2025, time.September, 3),
		StartSession:  leave.SessionFullDay,
		EndSession:    leave.SessionFullDay,
		DaysRequested: decimal.NewFromInt(3),
		Status:        leave.StatusPending,
		Reason:        "family trip",
	}
	return backend
}

func newTestRequestService(backend *fakeBackend) (*RequestService, *editlock.Registry) {
	lockService := locksvc.NewService(memory.NewRecordLockRepository(), time.Minute)
	registry := editlock.NewRegistry(lockService, time.Minute)
	svc := NewRequestService(backend, backend, NewDayCalculator(), registry, "VIC", "AU")
	return svc, registry
}

func TestRequestService_EditWorkflow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	svc, _ := newTestRequestService(backend)

	// Manager opens the edit surface and owns the lock.
	sess, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)
	assert.True(t, sess.Editable)
	assert.Equal(t, string(editlock.StateOwned), sess.State)

	// End date moves from Wed to Tue; the service recomputes the count.
	err = svc.Update(ctx, sess.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-02",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
		Reason:       "family trip",
		// A stale count submitted by the client is never trusted.
		DaysRequested: decimal.NewFromInt(99),
	})
	require.NoError(t, err)
	require.Equal(t, 1, backend.updateCalls)
	assert.True(t, backend.lastUpdate.DaysRequested.Equal(decimal.NewFromInt(2)),
		"got %s", backend.lastUpdate.DaysRequested)

	// Closing the surface frees the record for the next manager.
	require.NoError(t, svc.CloseEdit(ctx, sess.SessionID))

	other, err := svc.OpenEdit(ctx, "req-1", "mgr-2")
	require.NoError(t, err)
	assert.True(t, other.Editable)
}

func TestRequestService_DeniedEditIsReadOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	svc, _ := newTestRequestService(backend)

	first, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)
	require.True(t, first.Editable)

	second, err := svc.OpenEdit(ctx, "req-1", "mgr-2")
	require.NoError(t, err)
	assert.False(t, second.Editable)
	assert.Equal(t, string(editlock.StateDenied), second.State)
	assert.Equal(t, "mgr-1", second.LockedBy)

	// The denied session cannot push an update.
	err = svc.Update(ctx, second.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-2",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-02",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})
	assert.ErrorIs(t, err, lock.ErrEditNotOwned)
	assert.Equal(t, 0, backend.updateCalls)
}

func TestRequestService_UpdateRequiresOpenSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	svc, _ := newTestRequestService(backend)

	err := svc.Update(ctx, "no-such-session", leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-02",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})
	assert.ErrorIs(t, err, lock.ErrSessionNotFound)
	assert.Equal(t, 0, backend.updateCalls)
}

func TestRequestService_UpdateNormalizesHalfDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	req := backend.requests["req-1"]
	req.LeaveTypeID = noHalfDayLeave
	backend.requests["req-1"] = req

	svc, _ := newTestRequestService(backend)
	sess, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)

	err = svc.Update(ctx, sess.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  noHalfDayLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-03",
		StartSession: leave.SessionFirst,
		EndSession:   leave.SessionSecond,
	})
	require.NoError(t, err)

	// Half-day sessions are dropped and the count is full days.
	assert.Equal(t, leave.SessionNone, backend.lastUpdate.StartSession)
	assert.Equal(t, leave.SessionNone, backend.lastUpdate.EndSession)
	assert.True(t, backend.lastUpdate.DaysRequested.Equal(decimal.NewFromInt(3)),
		"got %s", backend.lastUpdate.DaysRequested)
}

func TestRequestService_UpdateCountsAllDaysForMaternityLeave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	req := backend.requests["req-1"]
	req.LeaveTypeID = maternityLeave
	backend.requests["req-1"] = req
	// A holiday inside the range must not reduce the count for this type.
	backend.holidays = []leave.Holiday{{Date: date(2025, time.September, 2)}}

	svc, _ := newTestRequestService(backend)
	sess, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)

	// Fri 2025-09-05 through Mon 2025-09-08 spans a weekend.
	err = svc.Update(ctx, sess.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  maternityLeave,
		StartDate:    "2025-09-05",
		EndDate:      "2025-09-08",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})
	require.NoError(t, err)
	assert.True(t, backend.lastUpdate.DaysRequested.Equal(decimal.NewFromInt(4)),
		"got %s", backend.lastUpdate.DaysRequested)
}

func TestRequestService_UpdateExcludesHolidays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	backend.holidays = []leave.Holiday{{Date: date(2025, time.September, 2), Name: "Foundation Day"}}

	svc, _ := newTestRequestService(backend)
	sess, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)

	err = svc.Update(ctx, sess.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-03",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})
	require.NoError(t, err)
	assert.True(t, backend.lastUpdate.DaysRequested.Equal(decimal.NewFromInt(2)),
		"got %s", backend.lastUpdate.DaysRequested)
}

func TestRequestService_UpdateRejectsTerminalStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()

	svc, _ := newTestRequestService(backend)
	sess, err := svc.OpenEdit(ctx, "req-1", "mgr-1")
	require.NoError(t, err)

	req := backend.requests["req-1"]
	req.Status = leave.StatusRejected
	backend.mu.Lock()
	backend.requests["req-1"] = req
	backend.mu.Unlock()

	err = svc.Update(ctx, sess.SessionID, leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-01",
		EndDate:      "2025-09-02",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})
	assert.ErrorIs(t, err, leave.ErrNotEditable)
	assert.Equal(t, 0, backend.updateCalls)
}

func TestRequestService_UpdateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := seedBackend()
	svc, _ := newTestRequestService(backend)

	err := svc.Update(ctx, "any", leave.UpdateLeaveRequestRequest{
		LeaveID:      "req-1",
		EmployeeID:   "emp-1",
		ManagerID:    "mgr-1",
		LeaveTypeID:  annualLeave,
		StartDate:    "2025-09-03",
		EndDate:      "2025-09-01",
		StartSession: leave.SessionFullDay,
		EndSession:   leave.SessionFullDay,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "endDate")
	assert.Equal(t, 0, backend.updateCalls)
}
