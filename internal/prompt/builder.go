package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
)

var (
	// ErrEmptyInput means there is nothing to optimize. Callers must not call the generation client.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInvalidOption is returned for a tone or complexity outside the declared sets
	ErrInvalidOption = errors.New("invalid generation option")
)

// BuildRequest assembles a GenerationRequest from raw user input.
// The text is copied verbatim; trimming is only used to decide whether there is anything to send.
func BuildRequest(text string, tone models.Tone, complexity models.Complexity, targetModel string) (*models.GenerationRequest, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if !tone.Valid() {
		return nil, fmt.Errorf("%w: tone %q", ErrInvalidOption, tone)
	}
	if !complexity.Valid() {
		return nil, fmt.Errorf("%w: complexity %q", ErrInvalidOption, complexity)
	}

	if strings.TrimSpace(targetModel) == "" {
		targetModel = models.DefaultTargetModel
	}

	return &models.GenerationRequest{
		OriginalText:    text,
		Tone:            tone,
		Complexity:      complexity,
		TargetModelName: targetModel,
	}, nil
}

// Builder renders the system instruction and task message for a request
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() (*Builder, error) {
	loader, err := NewPromptLoader()
	if err != nil {
		return nil, err
	}
	return &Builder{loader: loader}, nil
}

type systemInstructionData struct {
	Tone                models.Tone
	ToneDirective       string
	Complexity          models.Complexity
	ComplexityDirective string
	TargetModel         string
}

type taskMessageData struct {
	OriginalText string
	Tone         models.Tone
	Complexity   models.Complexity
}

// SystemInstruction renders the fixed role, modes, directives and language policy.
// The language policy is a request to the model, nothing here verifies it.
func (b *Builder) SystemInstruction(req *models.GenerationRequest) (string, error) {
	data := systemInstructionData{
		Tone:                req.Tone,
		ToneDirective:       toneDirective(req.Tone),
		Complexity:          req.Complexity,
		ComplexityDirective: complexityDirective(req.Complexity),
		TargetModel:         req.TargetModelName,
	}

	var sb strings.Builder
	if err := b.loader.GetSystemInstructionTemplate().Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render system instruction: %w", err)
	}
	return sb.String(), nil
}

// TaskMessage renders the user message with the original text embedded verbatim
func (b *Builder) TaskMessage(req *models.GenerationRequest) (string, error) {
	data := taskMessageData{
		OriginalText: req.OriginalText,
		Tone:         req.Tone,
		Complexity:   req.Complexity,
	}

	var sb strings.Builder
	if err := b.loader.GetTaskMessageTemplate().Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render task message: %w", err)
	}
	return sb.String(), nil
}

func toneDirective(tone models.Tone) string {
	switch tone {
	case models.ToneNeutral:
		return "objetivo y sin adornos"
	case models.ToneProfessional:
		return "formal, claro y orientado a resultados"
	case models.ToneCreative:
		return "imaginativo, con ejemplos y lenguaje evocador"
	case models.TonePrecise:
		return "técnico, sin ambigüedades y con criterios verificables"
	case models.TonePersuasive:
		return "convincente, centrado en beneficios y llamadas a la acción"
	}
	return string(tone)
}

func complexityDirective(complexity models.Complexity) string {
	switch complexity {
	case models.ComplexityConcise:
		return "breve, solo lo esencial"
	case models.ComplexityBalanced:
		return "equilibrado entre brevedad y contexto"
	case models.ComplexityDetailed:
		return "exhaustivo, con pasos, restricciones y ejemplos"
	}
	return string(complexity)
}
