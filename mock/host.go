package mock

import "github.com/fwojciec/tutor"

// Interface compliance check.
var _ tutor.Host = (*Host)(nil)

// Host is a test double for tutor.Host. Text and Image are the inputs of
// the action; History and Outputs record what the pipeline rendered.
type Host struct {
	Text  string
	Image *tutor.Image

	History []tutor.Turn
	Outputs []tutor.Output
}

// RenderHistory records the history snapshot.
func (h *Host) RenderHistory(turns []tutor.Turn) {
	h.History = turns
}

// TextInput returns Text when it is set.
func (h *Host) TextInput() (string, bool) {
	return h.Text, h.Text != ""
}

// UploadedImage returns Image when it is set.
func (h *Host) UploadedImage() (tutor.Image, bool) {
	if h.Image == nil {
		return tutor.Image{}, false
	}
	return *h.Image, true
}

// RenderOutput records out.
func (h *Host) RenderOutput(out tutor.Output) {
	h.Outputs = append(h.Outputs, out)
}
