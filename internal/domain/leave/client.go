package leave

import "context"

// RequestClient is the console's view of the HR backend's leave-request API.
type RequestClient interface {
	List(ctx context.Context, filter RequestFilter) ([]LeaveRequest, error)
	Get(ctx context.Context, id string) (LeaveRequest, error)
	GetType(ctx context.Context, leaveTypeID string) (LeaveType, error)
	Decide(ctx context.Context, action Action, req DecisionRequest) error
	DecideBatch(ctx context.Context, action Action, req BatchDecisionRequest) error
	Update(ctx context.Context, req UpdateLeaveRequestRequest) error
}

// HolidayClient fetches the public-holiday exclusion set.
type HolidayClient interface {
	ByLocation(ctx context.Context, state, country string) ([]Holiday, error)
}
