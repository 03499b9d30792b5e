package bubbletea_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/tutor"
	bt "github.com/fwojciec/tutor/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlock(t *testing.T) {
	t.Parallel()
	theme := tutor.DefaultTheme()
	styles := bt.NewStyles(theme)

	_, ok := bt.NewBlock(tutor.Output{Role: tutor.RoleUser, Kind: tutor.OutputPlain, Text: "hi"}, theme, styles).(*bt.UserBlock)
	assert.True(t, ok)
	_, ok = bt.NewBlock(tutor.Present("$$x = 3$$"), theme, styles).(*bt.MathBlock)
	assert.True(t, ok)
	_, ok = bt.NewBlock(tutor.Present("What next?"), theme, styles).(*bt.ReplyBlock)
	assert.True(t, ok)
}

func TestUserBlock(t *testing.T) {
	t.Parallel()
	b := bt.NewUserBlock("3x + 7 = 16", bt.NewStyles(tutor.DefaultTheme()))
	assert.Contains(t, stripANSI(b.View(80)), "> 3x + 7 = 16")
}

func TestReplyBlock(t *testing.T) {
	t.Parallel()
	b := bt.NewReplyBlock("What should we **subtract** first?", tutor.DefaultTheme())
	first := b.View(40)
	assert.Contains(t, stripANSI(first), "subtract")
	assert.Equal(t, first, b.View(40))
}

func TestMathBlock(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(tutor.DefaultTheme())

	t.Run("frame lines share one width", func(t *testing.T) {
		t.Parallel()
		view := stripANSI(bt.NewMathBlock(`x^2 = \frac{9}{3}`, styles).View(80))
		lines := strings.Split(view, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "│ x² = 9/3 │", lines[1])
		w := runewidth.StringWidth(lines[0])
		for _, l := range lines {
			assert.Equal(t, w, runewidth.StringWidth(l), "line %q", l)
		}
	})

	t.Run("long markup wraps inside the frame", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("x + ", 30) + "1"
		view := stripANSI(bt.NewMathBlock(long, styles).View(40))
		lines := strings.Split(view, "\n")
		assert.Greater(t, len(lines), 3)
		for _, l := range lines {
			assert.LessOrEqual(t, runewidth.StringWidth(l), 40, "line %q", l)
		}
	})

	t.Run("line breaks become rows", func(t *testing.T) {
		t.Parallel()
		view := stripANSI(bt.NewMathBlock(`x = 1 \\ y = 2`, styles).View(80))
		assert.Len(t, strings.Split(view, "\n"), 4)
	})
}

func TestNoticeBlocks(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(tutor.DefaultTheme())
	assert.Contains(t, stripANSI(bt.NewErrorBlock(errors.New("boom"), styles).View(80)), "Error: boom")
	assert.Contains(t, stripANSI(bt.NewInfoBlock("saved", styles).View(80)), "saved")
}
