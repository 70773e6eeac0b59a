package lock

import "errors"

var (
	ErrLockNotFound    = errors.New("Record lock not found")
	ErrNotOwner        = errors.New("Record lock is held by another user")
	ErrEditNotOwned    = errors.New("Edit session does not own the record lock")
	ErrSessionNotFound = errors.New("Edit session not found")
)
