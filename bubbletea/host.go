package bubbletea

import (
	"context"

	"github.com/fwojciec/tutor"
)

var _ tutor.Host = (*actionHost)(nil)

// actionHost presents one submitted action to the pipeline. Outputs are
// forwarded to the model as they are produced.
type actionHost struct {
	ctx   context.Context
	text  string
	image *tutor.Image
	out   chan<- tutor.Output
}

// RenderHistory is a no-op: the model already shows every prior turn.
func (h *actionHost) RenderHistory([]tutor.Turn) {}

func (h *actionHost) TextInput() (string, bool) {
	return h.text, h.text != ""
}

func (h *actionHost) UploadedImage() (tutor.Image, bool) {
	if h.image == nil {
		return tutor.Image{}, false
	}
	return *h.image, true
}

func (h *actionHost) RenderOutput(out tutor.Output) {
	select {
	case h.out <- out:
	case <-h.ctx.Done():
	}
}
