package json

import (
	"time"

	"github.com/fwojciec/tutor"
)

// Turn is the JSON representation of a transcript turn.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Output is the JSON representation of one item a host displays.
type Output struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// FromTurns converts turns to their wire form. It never returns nil so an
// empty history encodes as [].
func FromTurns(turns []tutor.Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = Turn{Role: string(t.Role), Content: t.Content, Timestamp: t.Timestamp}
	}
	return out
}

// FromOutputs converts outputs to their wire form. It never returns nil.
func FromOutputs(outputs []tutor.Output) []Output {
	out := make([]Output, len(outputs))
	for i, o := range outputs {
		out[i] = Output{Role: string(o.Role), Kind: string(o.Kind), Text: o.Text}
	}
	return out
}
