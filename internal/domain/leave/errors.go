package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	ErrLeaveTypeNotFound    = errors.New("Leave type not found")
	ErrInvalidTransition    = errors.New("Leave request status transition not allowed")
	ErrCommentRequired      = errors.New("A comment is required for this action")
	ErrEmptyBatch           = errors.New("No leave requests selected")
	ErrInvalidDateRange     = errors.New("Start date must be on or before end date")
	ErrNotEditable          = errors.New("Leave request can no longer be edited")
	ErrHalfDayNotAllowed    = errors.New("This leave type does not allow half days")
)
