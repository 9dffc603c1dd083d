package server

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-logbook/pkg/form"
)

// Sessions holds the mounted forms keyed by id and unmounts those idle for
// longer than the TTL.
type Sessions struct {
	mu      sync.Mutex
	forms   map[string]*form.Form
	ttl     time.Duration
	now     func() time.Time
	mount   func(id string) *form.Form
	mounted prometheus.Gauge
}

func newSessions(ttl time.Duration, now func() time.Time, mount func(id string) *form.Form, mounted prometheus.Gauge) *Sessions {
	return &Sessions{
		forms:   make(map[string]*form.Form),
		ttl:     ttl,
		now:     now,
		mount:   mount,
		mounted: mounted,
	}
}

// Mount creates a form under a fresh ULID.
func (s *Sessions) Mount() *form.Form {
	id := ulid.Make().String()
	f := s.mount(id)

	s.mu.Lock()
	s.forms[id] = f
	s.updateGaugeLocked()
	s.mu.Unlock()
	return f
}

// Get returns the form mounted under id. Forms past their TTL are unmounted
// on access.
func (s *Sessions) Get(id string) (*form.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok {
		return nil, false
	}
	if f.Closed() || s.expired(f) {
		s.removeLocked(id, f)
		return nil, false
	}
	return f, true
}

// Unmount closes and forgets the form. It reports whether id was mounted.
func (s *Sessions) Unmount(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok {
		return false
	}
	s.removeLocked(id, f)
	return true
}

// Sweep unmounts every expired form and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, f := range s.forms {
		if f.Closed() || s.expired(f) {
			s.removeLocked(id, f)
			removed++
		}
	}
	return removed
}

// Len reports how many forms are mounted.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

// CloseAll unmounts every form.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.forms {
		s.removeLocked(id, f)
	}
}

// run sweeps on every tick until ctx is done.
func (s *Sessions) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) expired(f *form.Form) bool {
	return s.ttl > 0 && s.now().Sub(f.LastActive()) > s.ttl
}

func (s *Sessions) removeLocked(id string, f *form.Form) {
	f.Close()
	delete(s.forms, id)
	s.updateGaugeLocked()
}

func (s *Sessions) updateGaugeLocked() {
	if s.mounted != nil {
		s.mounted.Set(float64(len(s.forms)))
	}
}

// sweepInterval checks a few times per TTL, within sane bounds.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		return time.Second
	}
	if interval > time.Minute {
		return time.Minute
	}
	return interval
}
