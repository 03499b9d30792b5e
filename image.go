package tutor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image is an uploaded picture of a problem.
type Image struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// NewImage validates raw upload bytes. The MIME type is sniffed from the
// data and the header must decode as a PNG, JPEG or GIF image.
func NewImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("empty image: %w", ErrValidation)
	}
	mime := mimetype.Detect(data).String()
	if !strings.HasPrefix(mime, "image/") {
		return Image{}, fmt.Errorf("not an image (%s): %w", mime, ErrValidation)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %v: %w", mime, err, ErrValidation)
	}
	return Image{
		Data:     data,
		MimeType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
