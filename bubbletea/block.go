package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tutor"
	"github.com/fwojciec/tutor/goldmark"
	"github.com/mattn/go-runewidth"
)

// MessageBlock is a renderable element in the conversation. View takes a
// width so the root model controls layout and blocks are testable in
// isolation.
type MessageBlock interface {
	View(width int) string
}

var (
	_ MessageBlock = (*UserBlock)(nil)
	_ MessageBlock = (*ReplyBlock)(nil)
	_ MessageBlock = (*MathBlock)(nil)
	_ MessageBlock = (*NoticeBlock)(nil)
)

// NewBlock returns the block that displays out.
func NewBlock(out tutor.Output, theme tutor.Theme, styles Styles) MessageBlock {
	switch {
	case out.Role == tutor.RoleUser:
		return NewUserBlock(out.Text, styles)
	case out.Kind == tutor.OutputMath:
		return NewMathBlock(out.Text, styles)
	default:
		return NewReplyBlock(out.Text, theme)
	}
}

// UserBlock renders a student message with a "> " prefix.
type UserBlock struct {
	text   string
	styles Styles
}

// NewUserBlock creates a UserBlock.
func NewUserBlock(text string, styles Styles) *UserBlock {
	return &UserBlock{text: text, styles: styles}
}

func (b *UserBlock) View(width int) string {
	content := b.styles.UserMsg.Render("> ") + b.text
	return lipgloss.NewStyle().Width(width).Render(content)
}

// ReplyBlock renders a plain tutor reply as markdown. The rendering is
// cached per width.
type ReplyBlock struct {
	text    string
	theme   tutor.Theme
	byWidth map[int]string
}

// NewReplyBlock creates a ReplyBlock.
func NewReplyBlock(text string, theme tutor.Theme) *ReplyBlock {
	return &ReplyBlock{text: text, theme: theme, byWidth: make(map[int]string)}
}

func (b *ReplyBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.text, width, b.theme)
	b.byWidth[width] = rendered
	return rendered
}

// MathBlock renders math markup inside a frame. Common LaTeX commands are
// shown as their Unicode symbols; anything else is shown as written.
type MathBlock struct {
	latex  string
	styles Styles
}

// NewMathBlock creates a MathBlock.
func NewMathBlock(latex string, styles Styles) *MathBlock {
	return &MathBlock{latex: latex, styles: styles}
}

func (b *MathBlock) View(width int) string {
	inner := max(width-4, 1)
	var lines []string
	for _, l := range strings.Split(Symbols(b.latex), "\n") {
		lines = append(lines, strings.Split(runewidth.Wrap(l, inner), "\n")...)
	}
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}

	var sb strings.Builder
	sb.WriteString(b.styles.Frame.Render("╭" + strings.Repeat("─", w+2) + "╮"))
	for _, l := range lines {
		sb.WriteString("\n")
		sb.WriteString(b.styles.Frame.Render("│ "))
		sb.WriteString(b.styles.Math.Render(runewidth.FillRight(l, w)))
		sb.WriteString(b.styles.Frame.Render(" │"))
	}
	sb.WriteString("\n")
	sb.WriteString(b.styles.Frame.Render("╰" + strings.Repeat("─", w+2) + "╯"))
	return sb.String()
}

// NoticeBlock renders a host message that is not part of the transcript.
type NoticeBlock struct {
	text  string
	style lipgloss.Style
}

// NewErrorBlock creates a NoticeBlock for err.
func NewErrorBlock(err error, styles Styles) *NoticeBlock {
	return &NoticeBlock{text: fmt.Sprintf("Error: %v", err), style: styles.Error}
}

// NewInfoBlock creates a muted NoticeBlock.
func NewInfoBlock(text string, styles Styles) *NoticeBlock {
	return &NoticeBlock{text: text, style: styles.Muted}
}

func (b *NoticeBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.style.Render(b.text))
}
