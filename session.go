package tutor

import "time"

// Session is the per-visitor conversation state. Each session owns its
// transcript; nothing is shared between sessions.
type Session struct {
	ID         string
	Transcript *Transcript
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// closed holds the fatal failure that ended the session, if any.
	closed *Failure
}

// Closed returns the failure that ended the session, or nil.
func (s *Session) Closed() *Failure { return s.closed }
