package tutor

import "fmt"

// Assembler turns a transcript into a Request. It holds only values fixed
// at construction, so Assemble is a pure function of the transcript.
type Assembler struct {
	SystemInstruction string
	ImageInstruction  string
	Config            GenerationConfig
	Mode              Mode
}

// Assemble builds the request for the current transcript.
//
// In single-shot mode only the newest user turn is sent, as a bare prompt.
// In the history modes every turn is sent in transcript order, with no
// reordering or truncation.
func (a Assembler) Assemble(t *Transcript) (Request, error) {
	req := Request{
		SystemInstruction: a.SystemInstruction,
		Config:            a.Config,
	}
	switch a.Mode {
	case ModeSingleShot:
		turn, ok := t.lastOf(RoleUser)
		if !ok {
			return Request{}, fmt.Errorf("single-shot request needs a user turn: %w", ErrValidation)
		}
		req.Prompt = []Part{TextPart{Text: turn.Content}}
	case ModeHistory, ModeHistoryImage:
		if t.IsEmpty() {
			return Request{}, fmt.Errorf("history request needs at least one turn: %w", ErrValidation)
		}
		turns := t.Turns()
		req.History = make([]Content, len(turns))
		for i, turn := range turns {
			req.History[i] = Content{
				Role:  turn.Role,
				Parts: []Part{TextPart{Text: turn.Content}},
			}
		}
	default:
		return Request{}, fmt.Errorf("unknown mode %q: %w", a.Mode, ErrValidation)
	}
	return req, nil
}

// ImageRequest builds the single-shot multimodal request that asks the
// model to transcribe the math visible in img. It never includes history.
func (a Assembler) ImageRequest(img Image) Request {
	instruction := a.ImageInstruction
	if instruction == "" {
		instruction = DefaultImageInstruction
	}
	return Request{
		SystemInstruction: a.SystemInstruction,
		Config:            a.Config,
		Prompt: []Part{
			TextPart{Text: instruction},
			ImagePart{Data: img.Data, MimeType: img.MimeType},
		},
	}
}
