package memory

import (
	"context"
	"sync"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
)

type key struct {
	tableName string
	recordID  string
}

// RecordLockRepository is the in-memory lock.Repository used by tests and by
// lockd when no database is configured.
type RecordLockRepository struct {
	mu    sync.Mutex
	locks map[key]lock.RecordLock
}

func NewRecordLockRepository() *RecordLockRepository {
	return &RecordLockRepository{locks: make(map[key]lock.RecordLock)}
}

func (r *RecordLockRepository) TryAcquire(_ context.Context, l lock.RecordLock) (lock.RecordLock, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{tableName: l.TableName, recordID: l.RecordID}
	current, ok := r.locks[k]
	if ok && current.LockedBy != l.LockedBy && !current.Expired(l.AcquiredAt) {
		return current, false, nil
	}

	r.locks[k] = l
	return l, true, nil
}

func (r *RecordLockRepository) Get(_ context.Context, tableName, recordID string) (lock.RecordLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.locks[key{tableName: tableName, recordID: recordID}]
	if !ok {
		return lock.RecordLock{}, lock.ErrLockNotFound
	}
	return current, nil
}

func (r *RecordLockRepository) Release(_ context.Context, tableName, recordID, actorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{tableName: tableName, recordID: recordID}
	current, ok := r.locks[k]
	if !ok || current.LockedBy != actorID {
		return false, nil
	}

	delete(r.locks, k)
	return true, nil
}

func (r *RecordLockRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for k, l := range r.locks {
		if l.Expired(now) {
			delete(r.locks, k)
			removed++
		}
	}
	return removed, nil
}
