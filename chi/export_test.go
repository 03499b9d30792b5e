package chi

import "time"

// SetClock replaces the registry's clock.
func SetClock(s *Sessions, now func() time.Time) { s.now = now }

// Add creates a session and returns its ID.
func Add(s *Sessions) string { return s.add().session.ID }

// Touch marks a session as used and reports whether it exists.
func Touch(s *Sessions, id string) bool {
	_, ok := s.get(id)
	return ok
}

// Lock holds a session's action lock until the returned func is called.
func Lock(s *Sessions, id string) func() {
	e, _ := s.get(id)
	e.mu.Lock()
	return e.mu.Unlock
}
