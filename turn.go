package tutor

import "time"

// Turn is one role-tagged entry in a transcript. Turns are values; once
// appended to a Transcript they are never modified.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}
