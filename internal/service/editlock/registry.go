package editlock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peoplemesh/hrops-console-go/internal/domain/lock"
)

// Session is one open edit surface: a coordinator plus its expiry deadline.
type Session struct {
	ID          string
	Coordinator *Coordinator
	OpenedAt    time.Time
	ExpiresAt   time.Time
}

// Registry tracks the edit sessions the gateway has open on behalf of console
// users. The browser closes a session explicitly; the sweep is the unmount
// analog that releases locks for sessions the browser abandoned.
type Registry struct {
	client lock.Client
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(client lock.Client, ttl time.Duration) *Registry {
	return &Registry{
		client:   client,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for (tableName, recordID) and drives the acquire.
// The session exists in either outcome; a DENIED session carries the holder
// so the console can render read-only.
func (r *Registry) Open(ctx context.Context, tableName, recordID, actorID string) (*Session, State) {
	c := NewCoordinator(r.client, tableName, recordID, actorID)
	state := c.Open(ctx)

	now := r.now()
	s := &Session{
		ID:          uuid.NewString(),
		Coordinator: c,
		OpenedAt:    now,
		ExpiresAt:   now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s, state
}

// Get returns the session for the given ID if it is still registered.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close releases the session's lock if owned and removes it. Closing a
// session that is already gone is a no-op.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Coordinator.Close(ctx)
}

// Sweep closes sessions past their deadline so abandoned browser tabs do not
// leak locks. Intended to run on the watcher's schedule.
func (r *Registry) Sweep(ctx context.Context) error {
	now := r.now()

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		if err := s.Coordinator.Close(ctx); err != nil {
			slog.Warn("failed to release lock for expired edit session",
				"session", s.ID, "record", s.Coordinator.RecordID(), "error", err)
		}
	}
	return nil
}

// CloseAll releases every open session; called on shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		if err := s.Coordinator.Close(ctx); err != nil {
			slog.Warn("failed to release lock on shutdown",
				"session", s.ID, "record", s.Coordinator.RecordID(), "error", err)
		}
	}
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
