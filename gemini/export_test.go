package gemini

import (
	"context"

	"github.com/fwojciec/tutor"
	"google.golang.org/genai"
)

// ModelsFunc adapts a function to the models interface for testing.
type ModelsFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f ModelsFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, config)
}

// NewWithModels creates a Client backed by m instead of the SDK.
func NewWithModels(m ModelsFunc, opts ...Option) *Client {
	return newClient(m, opts...)
}

// BuildConfig exports buildConfig for testing.
func BuildConfig(req tutor.Request) *genai.GenerateContentConfig {
	return buildConfig(req)
}
