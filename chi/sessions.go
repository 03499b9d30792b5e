package chi

import (
	"sync"
	"time"

	"github.com/fwojciec/tutor"
	"golang.org/x/time/rate"
)

// entry is one visitor's session. mu serializes pipeline runs for the
// visitor; the transcript is not safe for concurrent use.
type entry struct {
	mu      sync.Mutex
	session *tutor.Session
	seen    time.Time
	limiter *rate.Limiter
}

// Sessions maps cookie IDs to visitor sessions and evicts the ones that
// have been idle for too long.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*entry
	create  func() *tutor.Session
	idle    time.Duration
	now     func() time.Time

	// newLimiter builds each visitor's action limiter. Nil means unlimited.
	newLimiter func() *rate.Limiter
}

// NewSessions creates an empty registry. create makes a fresh session.
func NewSessions(create func() *tutor.Session, idle time.Duration) *Sessions {
	return &Sessions{
		entries: make(map[string]*entry),
		create:  create,
		idle:    idle,
		now:     time.Now,
	}
}

// get returns the entry for id and marks it as seen.
func (s *Sessions) get(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if ok {
		e.seen = s.now()
	}
	return e, ok
}

func (s *Sessions) add() *entry {
	e := &entry{session: s.create(), seen: s.now()}
	if s.newLimiter != nil {
		e.limiter = s.newLimiter()
	}
	s.mu.Lock()
	s.entries[e.session.ID] = e
	s.mu.Unlock()
	return e
}

// allow reports whether the visitor may start another action now.
func (e *entry) allow() bool {
	return e.limiter == nil || e.limiter.Allow()
}

func (s *Sessions) remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Evict removes sessions idle for longer than the idle timeout and returns
// how many were removed. A session with a running action is kept.
func (s *Sessions) Evict() int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.seen.After(cutoff) || !e.mu.TryLock() {
			continue
		}
		delete(s.entries, id)
		e.mu.Unlock()
		n++
	}
	return n
}
