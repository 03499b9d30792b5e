package tutor

import (
	"fmt"
	"strings"
)

// OutputKind tells a host how to display an Output.
type OutputKind string

const (
	OutputPlain OutputKind = "plain"
	OutputMath  OutputKind = "math"
)

// Output is one item a host must display.
type Output struct {
	Role Role
	Kind OutputKind
	Text string
}

const mathDelimiter = "$$"

// ContainsMath reports whether text should be displayed as math markup.
// It is a heuristic: a "$$" delimiter or any backslash at all qualifies.
func ContainsMath(text string) bool {
	return strings.Contains(text, mathDelimiter) || strings.Contains(text, `\`)
}

// StripMath removes every "$$" delimiter and surrounding whitespace.
func StripMath(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, mathDelimiter, ""))
}

// Present decides how an assistant reply is displayed. The reply stored in
// the transcript is the unstripped original; only the presented text has
// its delimiters removed.
func Present(text string) Output {
	if ContainsMath(text) {
		return Output{Role: RoleAssistant, Kind: OutputMath, Text: StripMath(text)}
	}
	return Output{Role: RoleAssistant, Kind: OutputPlain, Text: text}
}

// PresentTurn returns how a stored turn is displayed when history is
// shown again. User turns are always plain.
func PresentTurn(t Turn) Output {
	if t.Role == RoleAssistant {
		return Present(t.Content)
	}
	return Output{Role: t.Role, Kind: OutputPlain, Text: t.Content}
}

// FailureMessage is the user-visible text for a failed generation. It
// always includes the failure detail.
func FailureMessage(f Failure) string {
	switch f.Kind {
	case FailureAuthentication:
		return fmt.Sprintf("The tutor could not sign in to the model provider (%s). Check the API key and restart.", f.Detail)
	case FailureInvalidResponse:
		return fmt.Sprintf("The tutor received a reply it could not read (%s). Please try again.", f.Detail)
	default:
		return fmt.Sprintf("The tutor is unavailable right now (%s). Please send your message again.", f.Detail)
	}
}
