package bubbletea_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tutor"
	bt "github.com/fwojciec/tutor/bubbletea"
	"github.com/fwojciec/tutor/mock"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func newSession() *tutor.Session {
	return &tutor.Session{ID: "test", Transcript: tutor.NewTranscript()}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, step bt.StepFunc, session *tutor.Session, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(step, session, tutor.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// pipelineStep returns a StepFunc backed by a real pipeline answering with
// the given results.
func pipelineStep(t *testing.T, mode tutor.Mode, results ...tutor.Result) bt.StepFunc {
	t.Helper()
	gen, _ := mock.Replies(results...)
	p, err := tutor.NewPipeline(gen,
		tutor.WithMode(mode),
		tutor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return p.Step
}

func nopStep(context.Context, *tutor.Session, tutor.Host) error {
	return nil
}
