package lock

import (
	"context"
	"time"
)

// TableLeaveRequest is the table name the console locks when a manager opens
// the leave-request edit surface.
const TableLeaveRequest = "leave_request"

// RecordLock is an advisory, server-mediated mutual-exclusion token. At most
// one live lock exists per (TableName, RecordID) pair; the lock service owns
// the expiry policy.
type RecordLock struct {
	TableName  string
	RecordID   string
	LockedBy   string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the lock's lease has lapsed at the given instant.
func (l RecordLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// Grant is the lock service's answer to an acquire, release or check call.
type Grant struct {
	Granted bool
	Holder  string
	Message string
}

// Client talks to the record-lock service.
type Client interface {
	Acquire(ctx context.Context, tableName, recordID, actorID string) (Grant, error)
	Release(ctx context.Context, tableName, recordID, actorID string) (Grant, error)
	Check(ctx context.Context, tableName, recordID string) (Grant, error)
}

// Repository persists record locks for the lock service daemon.
type Repository interface {
	// TryAcquire atomically installs the lock unless a live lock held by a
	// different actor exists. It returns the lock now on record and whether
	// the caller holds it.
	TryAcquire(ctx context.Context, l RecordLock) (RecordLock, bool, error)
	Get(ctx context.Context, tableName, recordID string) (RecordLock, error)
	// Release deletes the lock if held by actorID; it reports whether a row
	// was removed.
	Release(ctx context.Context, tableName, recordID, actorID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
