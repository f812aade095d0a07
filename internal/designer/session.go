package designer

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-fc/meridian/internal/grid"
)

// ErrSessionNotFound indicates an unknown or expired designer session.
var ErrSessionNotFound = errors.New("designer: session not found")

// Session owns one workbook for the lifetime of a designer editing
// session. The workbook itself is not goroutine-safe; every access goes
// through Do, which serialises callers.
type Session struct {
	ID string

	mu       sync.Mutex
	workbook *grid.Workbook
	touched  time.Time
}

// Do runs fn with exclusive access to the session's workbook.
func (s *Session) Do(fn func(wb *grid.Workbook) error) error {
	if s == nil || fn == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return fn(s.workbook)
}

// Replace swaps the session's workbook, used when loading a saved
// document into the designer.
func (s *Session) Replace(wb *grid.Workbook) {
	if s == nil || wb == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workbook = wb
	s.touched = time.Now()
}

// Registry tracks live designer sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry constructs a session registry. idleTTL of zero disables
// reaping.
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// WithClock overrides the clock for deterministic tests.
func (r *Registry) WithClock(clock func() time.Time) {
	if clock != nil {
		r.now = clock
	}
}

// Create opens a session with a fresh workbook.
func (r *Registry) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		workbook: grid.NewWorkbook(),
		touched:  r.now(),
	}
	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close removes a session.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep removes sessions idle for longer than the configured TTL and
// returns how many were reaped.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	reaped := 0
	for id, sess := range r.sessions {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			reaped++
		}
	}
	return reaped
}
