package response

import (
	"errors"
	"net/http"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request status transition not allowed")
	case errors.Is(err, leave.ErrNotEditable):
		Conflict(w, "Leave request can no longer be edited")
	case errors.Is(err, leave.ErrCommentRequired):
		BadRequest(w, "A comment is required for this action", nil)
	case errors.Is(err, leave.ErrEmptyBatch):
		BadRequest(w, "No leave requests selected", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Start date must be on or before end date", nil)
	case errors.Is(err, leave.ErrHalfDayNotAllowed):
		BadRequest(w, "This leave type does not allow half days", nil)

	// Lock domain errors
	case errors.Is(err, lock.ErrEditNotOwned):
		Locked(w, "Record is not locked by this edit session", nil)
	case errors.Is(err, lock.ErrSessionNotFound):
		NotFound(w, "Edit session not found")
	case errors.Is(err, lock.ErrLockNotFound):
		NotFound(w, "Lock not found")
	case errors.Is(err, lock.ErrNotOwner):
		Forbidden(w, "Lock is held by another user")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
