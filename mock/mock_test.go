package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/tutor"
	"github.com/fwojciec/tutor/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()
	t.Run("delegates to GenerateFn", func(t *testing.T) {
		t.Parallel()
		g := mock.Generator{
			GenerateFn: func(ctx context.Context, req tutor.Request) tutor.Result {
				return tutor.Text{Value: req.SystemInstruction}
			},
		}
		got := g.Generate(context.Background(), tutor.Request{SystemInstruction: "echo"})
		assert.Equal(t, tutor.Text{Value: "echo"}, got)
	})

	t.Run("panics when GenerateFn not set", func(t *testing.T) {
		t.Parallel()
		g := mock.Generator{}
		assert.Panics(t, func() {
			_ = g.Generate(context.Background(), tutor.Request{})
		})
	})
}

func TestReplies(t *testing.T) {
	t.Parallel()
	g, reqs := mock.Replies(tutor.Text{Value: "one"}, tutor.Failure{Kind: tutor.FailureUnavailable, Detail: "down"})

	assert.Equal(t, tutor.Text{Value: "one"}, g.Generate(context.Background(), tutor.Request{SystemInstruction: "a"}))
	assert.Equal(t, tutor.Failure{Kind: tutor.FailureUnavailable, Detail: "down"}, g.Generate(context.Background(), tutor.Request{SystemInstruction: "b"}))
	require.Len(t, *reqs, 2)
	assert.Equal(t, "b", (*reqs)[1].SystemInstruction)
	assert.Panics(t, func() {
		_ = g.Generate(context.Background(), tutor.Request{})
	})
}

func TestHost(t *testing.T) {
	t.Parallel()
	t.Run("no input", func(t *testing.T) {
		t.Parallel()
		h := mock.Host{}
		_, ok := h.TextInput()
		assert.False(t, ok)
		_, ok = h.UploadedImage()
		assert.False(t, ok)
	})

	t.Run("records renders", func(t *testing.T) {
		t.Parallel()
		h := mock.Host{Text: "hi", Image: &tutor.Image{MimeType: "image/png"}}
		text, ok := h.TextInput()
		assert.True(t, ok)
		assert.Equal(t, "hi", text)
		img, ok := h.UploadedImage()
		assert.True(t, ok)
		assert.Equal(t, "image/png", img.MimeType)

		h.RenderHistory([]tutor.Turn{{Role: tutor.RoleUser, Content: "x"}})
		h.RenderOutput(tutor.Output{Kind: tutor.OutputPlain, Text: "y"})
		assert.Len(t, h.History, 1)
		assert.Equal(t, []tutor.Output{{Kind: tutor.OutputPlain, Text: "y"}}, h.Outputs)
	})
}
