package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_CopiesTextVerbatim(t *testing.T) {
	inputs := []string{
		"receta de pastel",
		"  leading and trailing spaces  ",
		"\tEscribe un poema en inglés sobre el mar\n",
		"Texto con \"comillas\" y {{llaves}}",
	}

	for _, input := range inputs {
		req, err := BuildRequest(input, models.ToneCreative, models.ComplexityDetailed, "GPT-4o")
		require.NoError(t, err)
		assert.Equal(t, input, req.OriginalText)
		assert.Equal(t, models.ToneCreative, req.Tone)
		assert.Equal(t, models.ComplexityDetailed, req.Complexity)
		assert.Equal(t, "GPT-4o", req.TargetModelName)
	}
}

func TestBuildRequest_EmptyInputIsNoOp(t *testing.T) {
	for _, input := range []string{"", " ", "\n\t  \r\n"} {
		req, err := BuildRequest(input, models.DefaultTone, models.DefaultComplexity, "")
		assert.Nil(t, req)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestBuildRequest_RejectsUnknownOptions(t *testing.T) {
	_, err := BuildRequest("idea", models.Tone("Sarcástico"), models.DefaultComplexity, "")
	assert.True(t, errors.Is(err, ErrInvalidOption))

	_, err = BuildRequest("idea", models.DefaultTone, models.Complexity("Infinito"), "")
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestBuildRequest_DefaultTargetModel(t *testing.T) {
	req, err := BuildRequest("idea", models.DefaultTone, models.DefaultComplexity, "   ")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTargetModel, req.TargetModelName)
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	builder, err := NewPromptBuilder()
	require.NoError(t, err)
	require.NotNil(t, builder)
	return builder
}

func TestSystemInstruction(t *testing.T) {
	builder := newTestBuilder(t)
	req, err := BuildRequest("receta de pastel", models.TonePrecise, models.ComplexityConcise, "Claude 3.5")
	require.NoError(t, err)

	instruction, err := builder.SystemInstruction(req)
	require.NoError(t, err)

	assert.Contains(t, instruction, "Ingeniero de Prompts")
	assert.Contains(t, instruction, "CREADOR")
	assert.Contains(t, instruction, "OPTIMIZADOR")
	assert.Contains(t, instruction, "tono Preciso")
	assert.Contains(t, instruction, "nivel de detalle Conciso")
	assert.Contains(t, instruction, "Claude 3.5")
	assert.Contains(t, instruction, "'explanation' debe estar estrictamente en ESPAÑOL")
	assert.Contains(t, instruction, "[CORCHETES]")
	assert.NotContains(t, instruction, "receta de pastel")
}

func TestTaskMessage_EmbedsOriginalTextVerbatim(t *testing.T) {
	builder := newTestBuilder(t)
	original := "  Write a poem in English about {{.Tone}} <b>rain</b>  "
	req, err := BuildRequest(original, models.ToneCreative, models.ComplexityBalanced, "")
	require.NoError(t, err)

	message, err := builder.TaskMessage(req)
	require.NoError(t, err)

	assert.Contains(t, message, `Entrada del usuario: "`+original+`"`)
	assert.Contains(t, message, "- Tono: Creativo")
	assert.Contains(t, message, "- Complejidad: Equilibrado")
}

func TestDirectivesCoverEveryOption(t *testing.T) {
	for _, tone := range models.Tones() {
		directive := toneDirective(tone)
		assert.NotEqual(t, string(tone), directive, "tone %s has no directive", tone)
		assert.False(t, strings.TrimSpace(directive) == "")
	}
	for _, complexity := range models.Complexities() {
		directive := complexityDirective(complexity)
		assert.NotEqual(t, string(complexity), directive, "complexity %s has no directive", complexity)
	}
}
