package tutor

// Host is the UI collaborator a pipeline step talks to. A host gathers one
// user action (typed text, an uploaded image, or both) and displays what
// the pipeline produces. Rendering policy beyond plain/math is the host's.
type Host interface {
	RenderHistory(turns []Turn)
	TextInput() (string, bool)
	UploadedImage() (Image, bool)
	RenderOutput(out Output)
}
