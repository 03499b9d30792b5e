// Package gemini implements [tutor.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between tutor's
// provider-neutral requests and the Gemini API types, and folds every SDK
// error into a [tutor.Failure] value.
package gemini

import "time"

const (
	defaultTimeout = 60 * time.Second

	roleUser  = "user"
	roleModel = "model"
)
