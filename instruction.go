package tutor

import (
	_ "embed"
	"fmt"
)

// DefaultSystemInstruction is the tutoring policy sent with every request.
// It is written in Spanish, so the tutor answers in Spanish unless the
// student writes in another language.
//
//go:embed instruction.md
var DefaultSystemInstruction string

// DefaultImageInstruction asks the model to transcribe an uploaded problem.
const DefaultImageInstruction = "Identify the mathematical equation or expression visible in this image " +
	"and express it in LaTeX markup. Reply with the LaTeX only."

// DefaultModel is the Gemini model the tutor was tuned against.
const DefaultModel = "gemini-2.0-flash"

// Title is the heading both front-ends show.
const Title = "🤖 Chatbot de Matemáticas 📐"

// Greeting is the line shown under the title before the first question.
const Greeting = "Escribe una pregunta matemática y te ayudaré a resolverla paso a paso."

// DetectedStatement wraps text transcribed from an image into the user
// statement fed back into the conversation.
func DetectedStatement(latex string) string {
	return fmt.Sprintf("Detected this equation in the image: %s", latex)
}
