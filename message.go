package tutor

// Part is a sealed interface representing one piece of request content.
// The unexported marker method prevents external implementations.
type Part interface {
	part()
}

// TextPart contains text content.
type TextPart struct {
	Text string
}

func (TextPart) part() {}

// ImagePart contains raw image data.
type ImagePart struct {
	Data     []byte
	MimeType string
}

func (ImagePart) part() {}

// Content is one role-tagged entry of a history-mode request.
type Content struct {
	Role  Role
	Parts []Part
}

// Interface compliance checks.
var (
	_ Part = TextPart{}
	_ Part = ImagePart{}
)
