package tutor

import "context"

// Generator sends an assembled request to an LLM provider. Implementations
// never return a Go error: every failure is reported as a Failure value.
// The call blocks until the provider answers or the implementation's
// timeout elapses; it does not touch the transcript.
type Generator interface {
	Generate(ctx context.Context, req Request) Result
}
