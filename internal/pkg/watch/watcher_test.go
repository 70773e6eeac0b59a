package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_KickRunsFetch(t *testing.T) {
	t.Parallel()

	w := NewWatcher(time.Second)
	calls := 0
	w.Add("leave-requests", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.True(t, w.Kick(context.Background(), "leave-requests"))
	assert.Equal(t, 1, calls)
}

func TestWatcher_KickUnknownSource(t *testing.T) {
	t.Parallel()

	w := NewWatcher(time.Second)
	assert.False(t, w.Kick(context.Background(), "nope"))
}

func TestWatcher_KickSuppressedWhileInFlight(t *testing.T) {
	t.Parallel()

	w := NewWatcher(0)
	entered := make(chan struct{})
	release := make(chan struct{})
	w.Add("leave-requests", time.Hour, func(ctx context.Context) error {
		close(entered)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Kick(context.Background(), "leave-requests")
	}()

	<-entered
	// A second refresh while the first fetch is running is dropped.
	assert.False(t, w.Kick(context.Background(), "leave-requests"))

	close(release)
	wg.Wait()
}

func TestWatcher_CooldownCollapsesBursts(t *testing.T) {
	t.Parallel()

	w := NewWatcher(30 * time.Second)
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	calls := 0
	w.Add("locks", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.True(t, w.Kick(context.Background(), "locks"))
	assert.False(t, w.Kick(context.Background(), "locks"))
	require.Equal(t, 1, calls)

	now = now.Add(31 * time.Second)
	assert.True(t, w.Kick(context.Background(), "locks"))
	assert.Equal(t, 2, calls)
}

func TestWatcher_StartPollsAndStops(t *testing.T) {
	t.Parallel()

	w := NewWatcher(0)
	done := make(chan struct{})
	var once sync.Once
	w.Add("leave-requests", time.Hour, func(ctx context.Context) error {
		once.Do(func() { close(done) })
		return nil
	})

	w.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("initial poll never ran")
	}
	w.Stop()
}
