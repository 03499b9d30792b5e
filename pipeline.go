// Package tutor is a conversational math tutor built on a hosted LLM.
//
// The root package holds the domain types (Turn, Transcript, Request,
// Result, Output) and the Pipeline that runs one user action end to end:
// append the user turn, assemble the request, call the Generator, present
// the reply and append it. Adapters for the model provider and for the UI
// hosts live in sub-packages named after the library they wrap.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs user actions against a Generator. It holds no per-session
// state and can serve any number of sessions, one action per session at a
// time.
type Pipeline struct {
	generator Generator
	assembler Assembler
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMode sets how requests are assembled. Default is ModeHistory.
func WithMode(m Mode) Option {
	return func(p *Pipeline) { p.assembler.Mode = m }
}

// WithSystemInstruction replaces the tutoring policy.
func WithSystemInstruction(s string) Option {
	return func(p *Pipeline) { p.assembler.SystemInstruction = s }
}

// WithGenerationConfig replaces the sampling parameters.
func WithGenerationConfig(c GenerationConfig) Option {
	return func(p *Pipeline) { p.assembler.Config = c }
}

// WithImageInstruction replaces the transcription instruction.
func WithImageInstruction(s string) Option {
	return func(p *Pipeline) { p.assembler.ImageInstruction = s }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a Pipeline. The mode and sampling parameters are
// validated once here.
func NewPipeline(gen Generator, opts ...Option) (*Pipeline, error) {
	if gen == nil {
		return nil, fmt.Errorf("nil generator: %w", ErrValidation)
	}
	p := &Pipeline{
		generator: gen,
		assembler: Assembler{
			SystemInstruction: DefaultSystemInstruction,
			ImageInstruction:  DefaultImageInstruction,
			Config:            DefaultGenerationConfig(),
			Mode:              ModeHistory,
		},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	if _, err := ParseMode(string(p.assembler.Mode)); err != nil {
		return nil, err
	}
	if err := p.assembler.Config.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Mode returns the assembly mode.
func (p *Pipeline) Mode() Mode { return p.assembler.Mode }

// NewSession creates an empty session with a fresh ID.
func (p *Pipeline) NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		Transcript: NewTranscript(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MaxGenerationsPerStep is the most Generator calls one Step makes: image
// transcription, the question it produces, then the typed text.
const MaxGenerationsPerStep = 3

// Step runs one host action: it shows the history so far, then processes
// the uploaded image (if any) and the typed text (if any).
func (p *Pipeline) Step(ctx context.Context, s *Session, h Host) error {
	h.RenderHistory(s.Transcript.Turns())

	if img, ok := h.UploadedImage(); ok {
		statement, err := p.Transcribe(ctx, s, img, h.RenderOutput)
		if err != nil {
			return err
		}
		if err := p.Ask(ctx, s, statement, h.RenderOutput); err != nil {
			return err
		}
	}

	if text, ok := h.TextInput(); ok && strings.TrimSpace(text) != "" {
		return p.Ask(ctx, s, text, h.RenderOutput)
	}
	return nil
}

// Ask appends text as a user turn, generates a reply from the transcript
// and appends the reply as an assistant turn. render receives the echoed
// user input and then the reply (or a failure notice). Provider failures
// other than authentication are rendered and appended, and Ask returns
// nil so the session stays usable.
func (p *Pipeline) Ask(ctx context.Context, s *Session, text string, render func(Output)) error {
	render = orDiscard(render)
	if err := p.checkOpen(s, render); err != nil {
		return err
	}
	if err := s.Transcript.Append(RoleUser, text); err != nil {
		return err
	}
	render(Output{Role: RoleUser, Kind: OutputPlain, Text: text})

	req, err := p.assembler.Assemble(s.Transcript)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	res := p.generate(ctx, s, req)
	return p.commit(s, res, render)
}

// Transcribe runs the image pre-processor: one single-shot multimodal
// request asking the model for the LaTeX of the visible problem. The
// detected math is rendered and the returned statement is meant to be
// passed to Ask. When the call fails, the failure notice is rendered and
// the statement degrades to the failure detail.
func (p *Pipeline) Transcribe(ctx context.Context, s *Session, img Image, render func(Output)) (string, error) {
	render = orDiscard(render)
	if !p.assembler.Mode.AcceptsImages() {
		return "", fmt.Errorf("mode %q does not accept images: %w", p.assembler.Mode, ErrValidation)
	}
	if err := p.checkOpen(s, render); err != nil {
		return "", err
	}

	res := p.generate(ctx, s, p.assembler.ImageRequest(img))
	switch r := res.(type) {
	case Text:
		latex := StripMath(r.Value)
		if latex == "" {
			latex = r.Value
		}
		render(Output{Role: RoleAssistant, Kind: OutputMath, Text: latex})
		// The statement keeps the model's own delimiters, like stored replies.
		return DetectedStatement(strings.TrimSpace(r.Value)), nil
	case Failure:
		render(Output{Role: RoleAssistant, Kind: OutputPlain, Text: FailureMessage(r)})
		if r.Fatal() {
			s.closed = &r
			return "", fmt.Errorf("transcribe: %w: %w", ErrAuthentication, r)
		}
		if strings.TrimSpace(r.Detail) == "" {
			return string(r.Kind), nil
		}
		return r.Detail, nil
	default:
		return "", fmt.Errorf("unknown result type %T: %w", res, ErrValidation)
	}
}

func (p *Pipeline) generate(ctx context.Context, s *Session, req Request) Result {
	start := time.Now()
	res := p.generator.Generate(ctx, req)
	attrs := []any{
		"session", s.ID,
		"mode", p.assembler.Mode,
		"single_shot", req.IsSingleShot(),
		"turns", len(req.History),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if f, ok := res.(Failure); ok {
		p.logger.Warn("generation failed", append(attrs, "kind", f.Kind, "detail", f.Detail, "no_response", f.NoResponse)...)
	} else {
		p.logger.Debug("generation complete", attrs...)
	}
	return res
}

// commit appends the result as an assistant turn and renders it.
func (p *Pipeline) commit(s *Session, res Result, render func(Output)) error {
	defer func() { s.UpdatedAt = time.Now() }()

	switch r := res.(type) {
	case Text:
		if err := s.Transcript.Append(RoleAssistant, r.Value); err != nil {
			// An empty reply is shown as a failure rather than lost.
			return p.commit(s, Failure{Kind: FailureInvalidResponse, Detail: "empty reply"}, render)
		}
		render(Present(r.Value))
		return nil
	case Failure:
		msg := FailureMessage(r)
		if err := s.Transcript.Append(RoleAssistant, msg); err != nil {
			return err
		}
		render(Output{Role: RoleAssistant, Kind: OutputPlain, Text: msg})
		if r.Fatal() {
			s.closed = &r
			return fmt.Errorf("%w: %w", ErrAuthentication, r)
		}
		return nil
	default:
		return fmt.Errorf("unknown result type %T: %w", res, ErrValidation)
	}
}

func (p *Pipeline) checkOpen(s *Session, render func(Output)) error {
	if s.closed == nil {
		return nil
	}
	render(Output{Role: RoleAssistant, Kind: OutputPlain, Text: FailureMessage(*s.closed)})
	return fmt.Errorf("%w: %w", ErrSessionClosed, *s.closed)
}

func orDiscard(render func(Output)) func(Output) {
	if render == nil {
		return func(Output) {}
	}
	return render
}
