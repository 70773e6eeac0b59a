package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source is one polled upstream resource.
type Source struct {
	Name     string
	Interval time.Duration
	Fetch    func(ctx context.Context) error
}

type source struct {
	Source

	mu       sync.Mutex
	inFlight bool
	lastDone time.Time
}

// begin reserves the source for a fetch. It fails while a fetch is running or
// before the cooldown since the last one has elapsed, so a burst of refresh
// requests collapses into a single upstream call.
func (s *source) begin(now time.Time, cooldown time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	if !s.lastDone.IsZero() && now.Sub(s.lastDone) < cooldown {
		return false
	}
	s.inFlight = true
	return true
}

func (s *source) end(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.lastDone = now
}

// Watcher polls registered sources on their intervals and lets callers
// request an out-of-band refresh with Kick. Polling replaces any push channel
// from the upstream services; subscribers observe the results through
// whatever the Fetch functions publish.
type Watcher struct {
	mu       sync.Mutex
	sources  map[string]*source
	cooldown time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatcher(cooldown time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		sources:  make(map[string]*source),
		cooldown: cooldown,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add registers a source. Registration must happen before Start.
func (w *Watcher) Add(name string, interval time.Duration, fetch func(ctx context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sources[name] = &source{Source: Source{Name: name, Interval: interval, Fetch: fetch}}
	slog.Info("Watch source registered", "name", name, "interval", interval)
}

// Start begins polling all registered sources.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range w.sources {
		w.wg.Add(1)
		go w.run(s)
	}
	slog.Info("Watcher started", "source_count", len(w.sources))
}

// Stop cancels all polling loops and waits for in-flight fetches.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
	slog.Info("Watcher stopped")
}

// Kick requests an immediate poll of the named source. It reports false when
// the request was dropped: unknown source, a fetch already in flight, or the
// cooldown since the last fetch has not elapsed.
func (w *Watcher) Kick(ctx context.Context, name string) bool {
	w.mu.Lock()
	s, ok := w.sources[name]
	w.mu.Unlock()
	if !ok {
		return false
	}
	return w.poll(ctx, s)
}

func (w *Watcher) run(s *source) {
	defer w.wg.Done()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	w.poll(w.ctx, s)

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.poll(w.ctx, s)
		}
	}
}

func (w *Watcher) poll(ctx context.Context, s *source) bool {
	if !s.begin(w.now(), w.cooldown) {
		return false
	}

	start := time.Now()
	err := s.Fetch(ctx)
	s.end(w.now())

	if err != nil {
		slog.Error("Watch fetch failed", "name", s.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Watch fetch completed", "name", s.Name, "duration", time.Since(start))
	}
	return true
}
