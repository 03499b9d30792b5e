// Package bubbletea provides the terminal host for the tutor, built on
// Bubble Tea.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tutor"
)

// StepFunc runs one pipeline step for the session. It blocks until the
// step completes or the context is cancelled.
type StepFunc func(ctx context.Context, session *tutor.Session, host tutor.Host) error

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// OutputMsg delivers one pipeline output to the model.
type OutputMsg struct {
	Output tutor.Output
}

// StepDoneMsg signals that the pipeline step has completed.
type StepDoneMsg struct {
	Err error
}
