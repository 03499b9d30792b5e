package json

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/tutor"
)

// requestDTO is the JSON representation of a model request. Field order is
// fixed by the struct, so equal requests encode to equal bytes.
type requestDTO struct {
	SystemInstruction string       `json:"system_instruction"`
	Config            configDTO    `json:"config"`
	Prompt            []partDTO    `json:"prompt,omitempty"`
	History           []contentDTO `json:"history,omitempty"`
}

type configDTO struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"top_p"`
	TopK            int     `json:"top_k"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

type contentDTO struct {
	Role  string    `json:"role"`
	Parts []partDTO `json:"parts"`
}

// partDTO is the JSON representation of a Part with a type discriminator.
type partDTO struct {
	Type     string  `json:"type"`
	Text     *string `json:"text,omitempty"`
	Data     *string `json:"data,omitempty"`
	MimeType *string `json:"mime_type,omitempty"`
}

// MarshalRequest serializes a Request deterministically. Image data is
// base64 encoded.
func MarshalRequest(req tutor.Request) ([]byte, error) {
	dto := requestDTO{
		SystemInstruction: req.SystemInstruction,
		Config: configDTO{
			Temperature:     req.Config.Temperature,
			TopP:            req.Config.TopP,
			TopK:            req.Config.TopK,
			MaxOutputTokens: req.Config.MaxOutputTokens,
		},
	}
	if len(req.Prompt) > 0 {
		parts, err := marshalParts(req.Prompt)
		if err != nil {
			return nil, fmt.Errorf("prompt: %w", err)
		}
		dto.Prompt = parts
	}
	for i, c := range req.History {
		parts, err := marshalParts(c.Parts)
		if err != nil {
			return nil, fmt.Errorf("history %d: %w", i, err)
		}
		dto.History = append(dto.History, contentDTO{Role: string(c.Role), Parts: parts})
	}
	return json.Marshal(dto)
}

func marshalParts(parts []tutor.Part) ([]partDTO, error) {
	result := make([]partDTO, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case tutor.TextPart:
			text := v.Text
			result[i] = partDTO{Type: "text", Text: &text}
		case tutor.ImagePart:
			encoded := base64.StdEncoding.EncodeToString(v.Data)
			mime := v.MimeType
			result[i] = partDTO{Type: "image", Data: &encoded, MimeType: &mime}
		default:
			return nil, fmt.Errorf("part %d: unknown part type: %T", i, p)
		}
	}
	return result, nil
}
