package tutor

import "fmt"

// Mode selects how the transcript is turned into a request.
type Mode string

const (
	// ModeSingleShot sends only the newest user input.
	ModeSingleShot Mode = "single-shot"
	// ModeHistory sends the full transcript.
	ModeHistory Mode = "history"
	// ModeHistoryImage sends the full transcript and accepts image uploads.
	ModeHistoryImage Mode = "history+image"
)

// ParseMode converts a flag or config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingleShot, ModeHistory, ModeHistoryImage:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be %q, %q or %q: %w",
			s, ModeSingleShot, ModeHistory, ModeHistoryImage, ErrValidation)
	}
}

// AcceptsImages reports whether the mode runs the image pre-processor.
func (m Mode) AcceptsImages() bool { return m == ModeHistoryImage }

// GenerationConfig holds the sampling parameters. They are fixed when the
// pipeline is built and never varied per call.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// DefaultGenerationConfig returns the tutor's sampling parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     1,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
}

// Request is the provider-neutral payload built by the Assembler. Exactly
// one of Prompt (single-shot) and History (history modes) is set.
type Request struct {
	SystemInstruction string
	Config            GenerationConfig
	Prompt            []Part
	History           []Content
}

// IsSingleShot reports whether the request carries a bare prompt.
func (r Request) IsSingleShot() bool { return len(r.Prompt) > 0 }

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if err := r.Config.Validate(); err != nil {
		return err
	}
	switch {
	case len(r.Prompt) > 0 && len(r.History) > 0:
		return fmt.Errorf("request has both prompt and history: %w", ErrValidation)
	case len(r.Prompt) == 0 && len(r.History) == 0:
		return fmt.Errorf("request has no content: %w", ErrValidation)
	}
	return nil
}

// Validate checks the sampling parameters are within provider ranges.
func (c GenerationConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %g: %w", c.Temperature, ErrValidation)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in [0, 1], got %g: %w", c.TopP, ErrValidation)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d: %w", c.TopK, ErrValidation)
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("max_output_tokens must be non-negative, got %d: %w", c.MaxOutputTokens, ErrValidation)
	}
	return nil
}
