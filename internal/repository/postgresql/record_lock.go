package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/database"
)

type recordLockRepositoryImpl struct {
	db *database.DB
}

func NewRecordLockRepository(db *database.DB) lock.Repository {
	return &recordLockRepositoryImpl{db: db}
}

// EnsureSchema creates the record_locks table when the daemon starts against
// a fresh database.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS record_locks (
			table_name  TEXT        NOT NULL,
			record_id   TEXT        NOT NULL,
			locked_by   TEXT        NOT NULL,
			acquired_at TIMESTAMPTZ NOT NULL,
			expires_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (table_name, record_id)
		)
	`
	_, err := db.Exec(ctx, query)
	return err
}

// TryAcquire implements lock.Repository. The insert either installs the lock,
// refreshes the caller's own lease, or steals an expired one; a losing caller
// gets no row back and the current holder is fetched separately.
func (r *recordLockRepositoryImpl) TryAcquire(ctx context.Context, l lock.RecordLock) (lock.RecordLock, bool, error) {
	query := `
		INSERT INTO record_locks (table_name, record_id, locked_by, acquired_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (table_name, record_id) DO UPDATE
		SET locked_by = EXCLUDED.locked_by,
			acquired_at = EXCLUDED.acquired_at,
			expires_at = EXCLUDED.expires_at
		WHERE record_locks.locked_by = EXCLUDED.locked_by
			OR record_locks.expires_at <= EXCLUDED.acquired_at
		RETURNING table_name, record_id, locked_by, acquired_at, expires_at
	`

	var got lock.RecordLock
	err := r.db.QueryRow(ctx, query,
		l.TableName, l.RecordID, l.LockedBy, l.AcquiredAt, l.ExpiresAt,
	).Scan(&got.TableName, &got.RecordID, &got.LockedBy, &got.AcquiredAt, &got.ExpiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.Get(ctx, l.TableName, l.RecordID)
		if getErr != nil {
			// The holder released between the two statements; report the
			// candidate as the blocking lock rather than failing the call.
			if errors.Is(getErr, lock.ErrLockNotFound) {
				return l, false, nil
			}
			return lock.RecordLock{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return lock.RecordLock{}, false, err
	}

	return got, true, nil
}

func (r *recordLockRepositoryImpl) Get(ctx context.Context, tableName, recordID string) (lock.RecordLock, error) {
	query := `
		SELECT table_name, record_id, locked_by, acquired_at, expires_at
		FROM record_locks
		WHERE table_name = $1 AND record_id = $2
	`

	var l lock.RecordLock
	err := r.db.QueryRow(ctx, query, tableName, recordID).Scan(
		&l.TableName,
		&l.RecordID,
		&l.LockedBy,
		&l.AcquiredAt,
		&l.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return lock.RecordLock{}, lock.ErrLockNotFound
	}
	if err != nil {
		return lock.RecordLock{}, err
	}

	return l, nil
}

func (r *recordLockRepositoryImpl) Release(ctx context.Context, tableName, recordID, actorID string) (bool, error) {
	query := `
		DELETE FROM record_locks
		WHERE table_name = $1 AND record_id = $2 AND locked_by = $3
	`

	commandTag, err := r.db.Exec(ctx, query, tableName, recordID, actorID)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

func (r *recordLockRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM record_locks
		WHERE expires_at <= $1
	`

	commandTag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}
