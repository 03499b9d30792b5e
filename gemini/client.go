package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/tutor"
	tutorjson "github.com/fwojciec/tutor/json"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ tutor.Generator = (*Client)(nil)

// models is the subset of *genai.Models the client uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements [tutor.Generator] for the Google Gemini API.
type Client struct {
	models  models
	model   string
	timeout time.Duration
	retry   bool
	logger  *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is [tutor.DefaultModel].
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTimeout bounds each attempt. Default is 60s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry enables or disables the single retry on transient failures.
// Default is enabled.
func WithRetry(enabled bool) Option {
	return func(c *Client) { c.retry = enabled }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: empty API key: %w", tutor.ErrConfigurationMissing)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return newClient(gc.Models, opts...), nil
}

func newClient(m models, opts ...Option) *Client {
	c := &Client{
		models:  m,
		model:   tutor.DefaultModel,
		timeout: defaultTimeout,
		retry:   true,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends req to Gemini. Each attempt is bounded by the client
// timeout; a transient failure is retried once when retry is enabled.
func (c *Client) Generate(ctx context.Context, req tutor.Request) tutor.Result {
	if err := req.Validate(); err != nil {
		return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: err.Error(), NoResponse: true}
	}
	c.logRequest(ctx, req)
	contents := ConvertRequest(req)
	config := buildConfig(req)

	attempts := 1
	if c.retry {
		attempts = 2
	}
	var failure tutor.Failure
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.call(ctx, contents, config)
		if err == nil {
			return c.extract(resp)
		}
		var transient bool
		failure, transient = classify(err, c.timeout)
		if !transient || ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			c.logger.Info("gemini: retrying", "model", c.model, "attempt", attempt, "error", err)
		}
	}
	return failure
}

func (c *Client) logRequest(ctx context.Context, req tutor.Request) {
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	payload, err := tutorjson.MarshalRequest(req)
	if err != nil {
		c.logger.DebugContext(ctx, "gemini: request not encodable", "error", err)
		return
	}
	c.logger.DebugContext(ctx, "gemini: request", "model", c.model, "payload", string(payload))
}

func (c *Client) call(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.models.GenerateContent(ctx, c.model, contents, config)
}

// extract returns the response text verbatim. A response without text is
// not an error: its JSON form is returned instead.
func (c *Client) extract(resp *genai.GenerateContentResponse) tutor.Result {
	if resp == nil {
		return tutor.Failure{Kind: tutor.FailureInvalidResponse, Detail: "empty response"}
	}
	if text := resp.Text(); text != "" {
		return tutor.Text{Value: text}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return tutor.Failure{Kind: tutor.FailureInvalidResponse, Detail: err.Error()}
	}
	c.logger.Warn("gemini: response has no text, using raw form", "model", c.model, "bytes", len(data))
	return tutor.Text{Value: string(data)}
}

func buildConfig(req tutor.Request) *genai.GenerateContentConfig {
	temp := float32(req.Config.Temperature)
	topP := float32(req.Config.TopP)
	topK := float32(req.Config.TopK)

	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: int32(req.Config.MaxOutputTokens),
	}

	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	return config
}

// ConvertRequest converts a tutor Request to genai Contents. A single-shot
// prompt becomes one user content; history keeps one content per turn.
// Exported for testing.
func ConvertRequest(req tutor.Request) []*genai.Content {
	if req.IsSingleShot() {
		return []*genai.Content{{Role: roleUser, Parts: convertParts(req.Prompt)}}
	}
	result := make([]*genai.Content, 0, len(req.History))
	for _, c := range req.History {
		role := roleUser
		if c.Role == tutor.RoleAssistant {
			role = roleModel
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: convertParts(c.Parts),
		})
	}
	return result
}

func convertParts(parts []tutor.Part) []*genai.Part {
	var out []*genai.Part
	for _, p := range parts {
		switch pt := p.(type) {
		case tutor.TextPart:
			out = append(out, &genai.Part{Text: pt.Text})
		case tutor.ImagePart:
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: pt.MimeType,
					Data:     pt.Data,
				},
			})
		}
	}
	return out
}
