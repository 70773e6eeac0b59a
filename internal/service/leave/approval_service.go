package leave

import (
	"context"
	"fmt"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
)

// ApprovalService applies manager decisions to leave requests. All guards run
// client-side before anything is sent upstream: a request that fails
// validation or the transition rules produces zero network calls.
type ApprovalService struct {
	requests leave.RequestClient
}

func NewApprovalService(requests leave.RequestClient) *ApprovalService {
	return &ApprovalService{requests: requests}
}

func statusFor(action leave.Action) leave.Status {
	switch action {
	case leave.ActionApprove:
		return leave.StatusApproved
	case leave.ActionReject:
		return leave.StatusRejected
	default:
		return leave.StatusCancelled
	}
}

// Decide applies a single approve/reject/cancel decision.
func (s *ApprovalService) Decide(ctx context.Context, action leave.Action, req leave.DecisionRequest) error {
	if !action.Valid() {
		return fmt.Errorf("unknown decision action %q", action)
	}
	if err := req.Validate(action); err != nil {
		return err
	}

	current, err := s.requests.Get(ctx, req.LeaveID)
	if err != nil {
		return fmt.Errorf("failed to load leave request: %w", err)
	}
	if !current.Status.CanTransitionTo(statusFor(action)) {
		return leave.ErrInvalidTransition
	}

	if err := s.requests.Decide(ctx, action, req); err != nil {
		return fmt.Errorf("failed to %s leave request: %w", action, err)
	}
	return nil
}

// DecideBatch applies approve/reject to the selected requests as one logical
// operation. A reject batch missing a comment for any selected ID fails here,
// before any network traffic; the upstream call is atomic from the caller's
// point of view and callers refetch the authoritative list after success.
func (s *ApprovalService) DecideBatch(ctx context.Context, action leave.Action, req leave.BatchDecisionRequest) error {
	if action != leave.ActionApprove && action != leave.ActionReject {
		return fmt.Errorf("batch decisions support approve and reject only, got %q", action)
	}
	if err := req.Validate(action); err != nil {
		return err
	}

	if err := s.requests.DecideBatch(ctx, action, req); err != nil {
		return fmt.Errorf("failed to %s batch: %w", action, err)
	}
	return nil
}
