package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tutor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type styles struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	math      lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
}

type renderer struct {
	styles styles
	width  int
	source []byte
}

func newRenderer(theme tutor.Theme, width int) *renderer {
	return &renderer{
		width: width,
		styles: styles{
			bold:      lipgloss.NewStyle().Bold(true),
			italic:    lipgloss.NewStyle().Italic(true),
			heading:   lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
			math:      lipgloss.NewStyle().Foreground(color(theme.Math)),
			muted:     lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
			underline: lipgloss.NewStyle().Underline(true),
		},
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte) string {
	r.source = source
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	blocks := r.blocks(doc, r.width)
	return strings.TrimRight(strings.Join(blocks, "\n\n"), "\n")
}

// blocks renders each block child of node. Blocks are joined with a blank
// line by the caller.
func (r *renderer) blocks(node ast.Node, width int) []string {
	var out []string
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *renderer) block(node ast.Node, width int) string {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return r.wrap(r.inline(n), width)
	case *ast.Heading:
		return r.wrap(r.styles.heading.Render(r.inline(n)), width)
	case *ast.FencedCodeBlock:
		code := r.lines(n)
		if lang := string(n.Language(r.source)); lang != "" {
			return r.styles.muted.Render(lang) + "\n" + code
		}
		return code
	case *ast.CodeBlock:
		return r.lines(n)
	case *ast.List:
		var buf bytes.Buffer
		r.list(&buf, n, width, 0)
		return strings.TrimRight(buf.String(), "\n")
	case *ast.Blockquote:
		return r.quote(n, width)
	case *ast.ThematicBreak:
		return r.styles.muted.Render(strings.Repeat("─", min(width, 40)))
	case *ast.HTMLBlock:
		return strings.TrimRight(r.lines(n), "\n")
	default:
		return strings.Join(r.blocks(n, width), "\n\n")
	}
}

// lines writes the raw lines of a code-like block behind a muted gutter.
func (r *renderer) lines(n ast.Node) string {
	gutter := r.styles.muted.Render("│") + " "
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, gutter+strings.TrimRight(string(seg.Value(r.source)), "\n"))
	}
	return strings.Join(out, "\n")
}

// quote renders a blockquote, typically a hint, with a bar in front of
// every line.
func (r *renderer) quote(n *ast.Blockquote, width int) string {
	bar := r.styles.muted.Render("▌") + " "
	inner := strings.Join(r.blocks(n, max(width-2, 10)), "\n\n")
	lines := strings.Split(inner, "\n")
	for i, l := range lines {
		lines[i] = bar + l
	}
	return strings.Join(lines, "\n")
}

func (r *renderer) list(buf *bytes.Buffer, n *ast.List, width, depth int) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if n.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		indent := strings.Repeat("  ", depth)

		var content strings.Builder
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			sub, ok := ic.(*ast.List)
			if !ok {
				if content.Len() > 0 {
					content.WriteString(" ")
				}
				content.WriteString(r.inlineOrBlock(ic, width))
				continue
			}
			if content.Len() > 0 {
				r.item(buf, indent+marker, content.String(), width)
				content.Reset()
				marker = strings.Repeat(" ", len(marker))
			}
			r.list(buf, sub, width, depth+1)
		}
		if content.Len() > 0 {
			r.item(buf, indent+marker, content.String(), width)
		}
	}
}

func (r *renderer) inlineOrBlock(n ast.Node, width int) string {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return r.inline(n)
	default:
		return r.block(n, width)
	}
}

// item writes one list item, indenting continuation lines under the text.
func (r *renderer) item(buf *bytes.Buffer, prefix, content string, width int) {
	wrapped := r.wrap(content, max(width-len(prefix), 10))
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			buf.WriteString(prefix)
		} else {
			buf.WriteString(pad)
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func (r *renderer) wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

// inline collects the styled inline text of node's children.
func (r *renderer) inline(node ast.Node) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.span(&buf, c)
	}
	return buf.String()
}

func (r *renderer) span(buf *bytes.Buffer, node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.styles.italic.Render(r.inline(n)))
		} else {
			buf.WriteString(r.styles.bold.Render(r.inline(n)))
		}
	case *ast.CodeSpan:
		buf.WriteString(r.styles.math.Render(r.inline(n)))
	case *ast.Link:
		buf.WriteString(r.styles.underline.Render(r.inline(n)))
		buf.WriteString(" " + r.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		buf.WriteString(r.styles.underline.Render(string(n.URL(r.source))))
	case *ast.Image:
		buf.WriteString(r.styles.underline.Render(r.inline(n)))
		buf.WriteString(" " + r.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(r.source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.span(buf, c)
		}
	}
}
