package tutor

import "fmt"

// Result is a sealed interface for the outcome of a generation call:
// either Text or Failure. It is decided once, at the Generator boundary.
type Result interface {
	result()
}

// Text is a successful generation.
type Text struct {
	Value string
}

func (Text) result() {}

// FailureKind classifies a failed generation.
type FailureKind string

const (
	FailureUnavailable     FailureKind = "unavailable"
	FailureInvalidResponse FailureKind = "invalid_response"
	FailureAuthentication  FailureKind = "authentication"
)

// Failure is a failed generation. NoResponse is true when the provider
// never answered (timeout, network) and false when it answered with an
// error.
type Failure struct {
	Kind       FailureKind
	Detail     string
	NoResponse bool
}

func (Failure) result() {}

// Error implements error so a Failure can be wrapped and logged.
func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// Fatal reports whether the failure ends the session.
func (f Failure) Fatal() bool { return f.Kind == FailureAuthentication }

// Interface compliance checks.
var (
	_ Result = Text{}
	_ Result = Failure{}
	_ error  = Failure{}
)
