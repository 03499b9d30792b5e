package tutor

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a turn, request or input failed validation.
	ErrValidation = errors.New("validation error")

	// ErrConfigurationMissing indicates a required credential is absent.
	// It is raised at startup, before any generation call is attempted.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrAuthentication indicates the provider rejected the credential.
	ErrAuthentication = errors.New("authentication failed")

	// ErrSessionClosed indicates an action on a session that hit a fatal
	// failure earlier.
	ErrSessionClosed = errors.New("session closed")
)
