package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
	"github.com/peoplemesh/hrops-console-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(ttl time.Duration) *Service {
	return NewService(memory.NewRecordLockRepository(), ttl)
}

func TestService_AcquireFirstWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	first, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)
	assert.True(t, first.Granted)

	second, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-2")
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Equal(t, "mgr-1", second.Holder)
	assert.Contains(t, second.Message, "mgr-1")
}

func TestService_ConcurrentAcquireGrantsExactlyOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	const actors = 16
	var wg sync.WaitGroup
	grants := make([]lock.Grant, actors)

	for i := 0; i < actors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-"+string(rune('a'+i)))
			assert.NoError(t, err)
			grants[i] = g
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, g := range grants {
		if g.Granted {
			granted++
		} else {
			assert.NotEmpty(t, g.Holder)
		}
	}
	assert.Equal(t, 1, granted)
}

func TestService_ReacquireBySameOwnerRefreshesLease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	current := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	g, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)
	require.True(t, g.Granted)

	current = current.Add(30 * time.Second)
	g, err = svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)
	assert.True(t, g.Granted)

	// The refreshed lease outlives the original deadline.
	current = current.Add(45 * time.Second)
	check, err := svc.Check(ctx, lock.TableLeaveRequest, "req-1")
	require.NoError(t, err)
	assert.False(t, check.Granted)
	assert.Equal(t, "mgr-1", check.Holder)
}

func TestService_ExpiredLockIsStealable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	current := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	g, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)
	require.True(t, g.Granted)

	current = current.Add(2 * time.Minute)
	g, err = svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-2")
	require.NoError(t, err)
	assert.True(t, g.Granted)
	assert.Equal(t, "mgr-2", g.Holder)
}

func TestService_ReleaseOnlyByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	_, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)

	g, err := svc.Release(ctx, lock.TableLeaveRequest, "req-1", "mgr-2")
	require.NoError(t, err)
	assert.False(t, g.Granted)

	check, err := svc.Check(ctx, lock.TableLeaveRequest, "req-1")
	require.NoError(t, err)
	assert.False(t, check.Granted)

	g, err = svc.Release(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)
	assert.True(t, g.Granted)

	check, err = svc.Check(ctx, lock.TableLeaveRequest, "req-1")
	require.NoError(t, err)
	assert.True(t, check.Granted)
}

func TestService_PurgeExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(time.Minute)

	current := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	_, err := svc.Acquire(ctx, lock.TableLeaveRequest, "req-1", "mgr-1")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	require.NoError(t, svc.PurgeExpired(ctx))

	check, err := svc.Check(ctx, lock.TableLeaveRequest, "req-1")
	require.NoError(t, err)
	assert.True(t, check.Granted)
}
