package models

import (
	"fmt"
	"strings"
	"time"
)

// Tone selects the stylistic register requested from the generator
type Tone string

// Tone values use the labels shown to users, which are also sent to the model
const (
	ToneNeutral      Tone = "Neutral"
	ToneProfessional Tone = "Profesional"
	ToneCreative     Tone = "Creativo"
	TonePrecise      Tone = "Preciso"
	TonePersuasive   Tone = "Persuasivo"
)

// Complexity selects the requested verbosity/detail level
type Complexity string

const (
	ComplexityConcise  Complexity = "Conciso"
	ComplexityBalanced Complexity = "Equilibrado"
	ComplexityDetailed Complexity = "Detallado"
)

// Defaults used by the optimizer page when the user does not pick anything
const (
	DefaultTone        = ToneProfessional
	DefaultComplexity  = ComplexityBalanced
	DefaultTargetModel = "Gemini 2.0 Flash"
)

// Tones lists every tone in display order
func Tones() []Tone {
	return []Tone{ToneNeutral, ToneProfessional, ToneCreative, TonePrecise, TonePersuasive}
}

// Complexities lists every complexity in display order
func Complexities() []Complexity {
	return []Complexity{ComplexityConcise, ComplexityBalanced, ComplexityDetailed}
}

var toneAliases = map[string]Tone{
	"neutral":      ToneNeutral,
	"profesional":  ToneProfessional,
	"professional": ToneProfessional,
	"creativo":     ToneCreative,
	"creative":     ToneCreative,
	"preciso":      TonePrecise,
	"precise":      TonePrecise,
	"persuasivo":   TonePersuasive,
	"persuasive":   TonePersuasive,
}

var complexityAliases = map[string]Complexity{
	"conciso":     ComplexityConcise,
	"concise":     ComplexityConcise,
	"equilibrado": ComplexityBalanced,
	"balanced":    ComplexityBalanced,
	"detallado":   ComplexityDetailed,
	"detailed":    ComplexityDetailed,
}

// ParseTone accepts a display label or its English name, case-insensitively.
// An empty value yields DefaultTone.
func ParseTone(value string) (Tone, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return DefaultTone, nil
	}
	if tone, ok := toneAliases[key]; ok {
		return tone, nil
	}
	return "", fmt.Errorf("unknown tone %q", value)
}

// ParseComplexity accepts a display label or its English name, case-insensitively.
// An empty value yields DefaultComplexity.
func ParseComplexity(value string) (Complexity, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return DefaultComplexity, nil
	}
	if complexity, ok := complexityAliases[key]; ok {
		return complexity, nil
	}
	return "", fmt.Errorf("unknown complexity %q", value)
}

// Valid reports whether t is one of the declared tones
func (t Tone) Valid() bool {
	switch t {
	case ToneNeutral, ToneProfessional, ToneCreative, TonePrecise, TonePersuasive:
		return true
	}
	return false
}

// Valid reports whether c is one of the declared complexities
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityConcise, ComplexityBalanced, ComplexityDetailed:
		return true
	}
	return false
}

// GenerationRequest is one user submission. It is built by prompt.BuildRequest and
// must not be modified afterwards.
type GenerationRequest struct {
	OriginalText    string     `json:"original_text"`
	Tone            Tone       `json:"tone"`
	Complexity      Complexity `json:"complexity"`
	TargetModelName string     `json:"target_model"`
}

// GenerationResult is the refined instruction returned by the generation endpoint.
// Original always equals the OriginalText of the request that produced it.
type GenerationResult struct {
	Original    string    `json:"original"`
	Optimized   string    `json:"optimized"`
	Explanation string    `json:"explanation"`
	Timestamp   time.Time `json:"timestamp"`
}
