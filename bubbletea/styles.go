package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tutor"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title   lipgloss.Style
	UserMsg lipgloss.Style
	Math    lipgloss.Style
	Frame   lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t tutor.Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		UserMsg: lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Math:    lipgloss.NewStyle().Foreground(ansiColor(t.Math)),
		Frame:   lipgloss.NewStyle().Foreground(ansiColor(t.Math)).Faint(true),
		Error:   lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
