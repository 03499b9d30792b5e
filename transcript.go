package tutor

import (
	"fmt"
	"strings"
	"time"
)

// Transcript is the ordered, append-only log of turns for one session.
// It is not safe for concurrent use: a session runs one pipeline at a time.
type Transcript struct {
	turns []Turn
	now   func() time.Time
}

// NewTranscript creates an empty Transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds a turn at the end. Only empty content is rejected; the role
// sequence is never checked, so consecutive same-role turns are kept.
func (t *Transcript) Append(role Role, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty %s turn: %w", role, ErrValidation)
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	t.turns = append(t.turns, Turn{Role: role, Content: content, Timestamp: now()})
	return nil
}

// Turns returns a copy of the turns in append order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// IsEmpty reports whether nothing has been appended yet.
func (t *Transcript) IsEmpty() bool { return len(t.turns) == 0 }

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// lastOf returns the most recent turn with the given role.
func (t *Transcript) lastOf(role Role) (Turn, bool) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Role == role {
			return t.turns[i], true
		}
	}
	return Turn{}, false
}
