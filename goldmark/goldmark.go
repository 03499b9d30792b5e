// Package goldmark renders the tutor's plain replies for the terminal.
// Replies are parsed as markdown with goldmark and styled with lipgloss
// using the colors of a tutor.Theme.
package goldmark

import "github.com/fwojciec/tutor"

const defaultWidth = 80

// Render parses a markdown reply and returns ANSI-styled terminal text
// wrapped to width. Code blocks keep their lines as written; inline code is
// treated as a math expression and drawn in the math color.
func Render(source string, width int, theme tutor.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme, width).render([]byte(source))
}
