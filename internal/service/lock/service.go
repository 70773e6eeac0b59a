package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
)

// Service enforces the one-live-lock-per-record rule for the lock daemon.
// Acquire is first-wins; a holder re-acquiring refreshes its lease; expired
// leases are stealable. It also satisfies lock.Client so tests can run the
// coordinator against the real service in process.
type Service struct {
	repo lock.Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo lock.Repository, ttl time.Duration) *Service {
	return &Service{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Service) Acquire(ctx context.Context, tableName, recordID, actorID string) (lock.Grant, error) {
	now := s.now()
	candidate := lock.RecordLock{
		TableName:  tableName,
		RecordID:   recordID,
		LockedBy:   actorID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	current, acquired, err := s.repo.TryAcquire(ctx, candidate)
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to acquire record lock: %w", err)
	}

	if !acquired {
		return lock.Grant{
			Granted: false,
			Holder:  current.LockedBy,
			Message: fmt.Sprintf("Record is locked by %s", current.LockedBy),
		}, nil
	}

	return lock.Grant{
		Granted: true,
		Holder:  actorID,
		Message: "Record locked",
	}, nil
}

func (s *Service) Release(ctx context.Context, tableName, recordID, actorID string) (lock.Grant, error) {
	removed, err := s.repo.Release(ctx, tableName, recordID, actorID)
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to release record lock: %w", err)
	}

	if !removed {
		return lock.Grant{
			Granted: false,
			Message: "Lock is not held by this user",
		}, nil
	}

	return lock.Grant{
		Granted: true,
		Message: "Lock released",
	}, nil
}

func (s *Service) Check(ctx context.Context, tableName, recordID string) (lock.Grant, error) {
	current, err := s.repo.Get(ctx, tableName, recordID)
	if errors.Is(err, lock.ErrLockNotFound) {
		return lock.Grant{Granted: true, Message: "Record is not locked"}, nil
	}
	if err != nil {
		return lock.Grant{}, fmt.Errorf("failed to check record lock: %w", err)
	}

	if current.Expired(s.now()) {
		return lock.Grant{Granted: true, Message: "Record is not locked"}, nil
	}

	return lock.Grant{
		Granted: false,
		Holder:  current.LockedBy,
		Message: fmt.Sprintf("Record is locked by %s", current.LockedBy),
	}, nil
}

// PurgeExpired removes lapsed leases; wired as a recurring watcher job.
func (s *Service) PurgeExpired(ctx context.Context) error {
	if _, err := s.repo.DeleteExpired(ctx, s.now()); err != nil {
		return fmt.Errorf("failed to purge expired locks: %w", err)
	}
	return nil
}
