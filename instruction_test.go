package tutor_test

import (
	"testing"

	"github.com/fwojciec/tutor"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSystemInstruction(t *testing.T) {
	t.Parallel()
	policy := tutor.DefaultSystemInstruction
	assert.Contains(t, policy, "LIMITACIONES Y ALCANCE DE USO")
	assert.Contains(t, policy, "enseñanza socrática")
	assert.Contains(t, policy, "3x + 7 = 16")
	assert.NotContains(t, policy, "LIMITS AND SCOPE")
}

func TestTitleAndGreeting(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "🤖 Chatbot de Matemáticas 📐", tutor.Title)
	assert.Equal(t, "Escribe una pregunta matemática y te ayudaré a resolverla paso a paso.", tutor.Greeting)
}
