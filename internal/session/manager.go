package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns the live sessions of a server. Sessions are kept in memory only and, when an
// idle timeout is set, expire after that long without a Create or Get.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lastUsed map[string]time.Time
	factory  func(id string) *Session
	idle     time.Duration
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIdleTimeout expires sessions unused for d. d <= 0 keeps sessions until deleted.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idle = d }
}

// NewManager returns a manager that builds sessions with factory.
func NewManager(factory func(id string) *Session, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		lastUsed: make(map[string]time.Time),
		factory:  factory,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	id := uuid.New().String()
	s := m.factory(id)
	m.mu.Lock()
	m.sessions[id] = s
	m.lastUsed[id] = m.now()
	m.mu.Unlock()
	return s
}

// Get returns the session with id, if any, and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		m.lastUsed[id] = m.now()
	}
	return s, ok
}

// Delete ends the session with id. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	delete(m.lastUsed, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout and returns how many it removed.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.idle)
	removed := 0
	for id, at := range m.lastUsed {
		if at.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.lastUsed, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. It returns at once when no idle timeout is set.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
