package editlock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
)

// State is the lifecycle of one edit session's lock.
type State string

const (
	StateUnlocked  State = "UNLOCKED"
	StateAcquiring State = "ACQUIRING"
	StateOwned     State = "OWNED"
	StateDenied    State = "DENIED"
	StateReleased  State = "RELEASED"
)

// Settled reports whether the lock outcome is known and the edit surface may
// render (owned: editable, denied: read-only).
func (s State) Settled() bool {
	return s == StateOwned || s == StateDenied
}

const deniedFallbackMessage = "Record may be locked by another user"

// Coordinator serializes editing of a single record by advertising intent to
// the lock service and tracking the outcome. State moves strictly forward:
//
//	UNLOCKED -> ACQUIRING -> {OWNED, DENIED} -> RELEASED
//
// Open is one-shot because the transition is guarded by the current state, so
// a second call observes the settled outcome instead of re-acquiring. Release
// is issued at most once, and only while OWNED.
type Coordinator struct {
	client    lock.Client
	tableName string
	recordID  string
	actorID   string

	mu      sync.Mutex
	state   State
	holder  string
	message string
}

func NewCoordinator(client lock.Client, tableName, recordID, actorID string) *Coordinator {
	return &Coordinator{
		client:    client,
		tableName: tableName,
		recordID:  recordID,
		actorID:   actorID,
		state:     StateUnlocked,
	}
}

// Open acquires the lock once. Subsequent calls return the settled state
// without another service call. A transport failure settles to DENIED: the
// safe reading is "someone else may be editing", never a concurrent edit.
func (c *Coordinator) Open(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnlocked {
		return c.state
	}
	c.state = StateAcquiring

	grant, err := c.client.Acquire(ctx, c.tableName, c.recordID, c.actorID)
	if err != nil {
		slog.Warn("lock acquire failed, treating record as held",
			"table", c.tableName, "record", c.recordID, "error", err)
		c.state = StateDenied
		c.holder = ""
		c.message = deniedFallbackMessage
		return c.state
	}

	if grant.Granted {
		c.state = StateOwned
		c.holder = c.actorID
		c.message = grant.Message
		return c.state
	}

	c.state = StateDenied
	c.holder = grant.Holder
	c.message = grant.Message
	if c.message == "" {
		c.message = deniedFallbackMessage
	}
	return c.state
}

// ReleaseNow is the explicit release path behind the Cancel button. It shares
// the release guard with Close, so a later cleanup call is a no-op.
func (c *Coordinator) ReleaseNow(ctx context.Context) error {
	return c.release(ctx)
}

// Close is the cleanup path and must run however the edit surface goes away.
// It never issues a service call unless this coordinator owns the lock.
func (c *Coordinator) Close(ctx context.Context) error {
	return c.release(ctx)
}

func (c *Coordinator) release(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateOwned {
		// Nothing acquired, or already released. Either way the session is over.
		c.state = StateReleased
		return nil
	}

	if _, err := c.client.Release(ctx, c.tableName, c.recordID, c.actorID); err != nil {
		// Ownership stands; a later Close may retry. The service's expiry
		// policy is the backstop for a session that never manages to release.
		return fmt.Errorf("failed to release record lock: %w", err)
	}

	c.state = StateReleased
	c.holder = ""
	return nil
}

// Owned reports whether this session currently holds the lock.
func (c *Coordinator) Owned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateOwned
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Holder returns who holds the lock when known ("" after a transport failure).
func (c *Coordinator) Holder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holder
}

// Message returns the lock service's last human-readable message.
func (c *Coordinator) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// RecordID returns the locked record's identifier.
func (c *Coordinator) RecordID() string {
	return c.recordID
}

// ActorID returns the acting user this session was opened for.
func (c *Coordinator) ActorID() string {
	return c.actorID
}
