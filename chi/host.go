package chi

import "github.com/fwojciec/tutor"

var _ tutor.Host = (*requestHost)(nil)

// requestHost is the tutor.Host for one HTTP request. It carries the
// action's inputs and collects what the pipeline renders for the response.
type requestHost struct {
	text  string
	image *tutor.Image

	history []tutor.Turn
	outputs []tutor.Output
}

func (h *requestHost) RenderHistory(turns []tutor.Turn) { h.history = turns }

func (h *requestHost) TextInput() (string, bool) { return h.text, h.text != "" }

func (h *requestHost) UploadedImage() (tutor.Image, bool) {
	if h.image == nil {
		return tutor.Image{}, false
	}
	return *h.image, true
}

func (h *requestHost) RenderOutput(out tutor.Output) { h.outputs = append(h.outputs, out) }
