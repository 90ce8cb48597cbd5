package llm

const (
	// OptimizedPromptField holds the refined or newly authored instruction
	OptimizedPromptField = "optimizedPrompt"
	// ExplanationField holds the rationale for the changes
	ExplanationField = "explanation"

	optimizationSchemaName = "optimized_prompt"
)

// GetOptimizationSchema returns the JSON schema for the optimizer output.
// Both fields are required strings and nothing else is allowed.
func GetOptimizationSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			OptimizedPromptField: map[string]any{
				"type": "string",
				//nolint:lll // Documentation string
				"description": "El prompt final optimizado. Incluye marcadores de posición [CORCHETES] donde el usuario deba poner sus datos.",
			},
			ExplanationField: map[string]any{
				"type": "string",
				//nolint:lll // Documentation string
				"description": "Explicación detallada en Español sobre las mejoras aplicadas (ej. 'Se añadió una persona experta', 'Se estructuró en pasos').",
			},
		},
		"required":             []string{OptimizedPromptField, ExplanationField},
		"additionalProperties": false,
	}
}

// NewOptimizationOutputSchema wraps GetOptimizationSchema for a GenerationRequest
func NewOptimizationOutputSchema() *OutputSchema {
	return &OutputSchema{
		Name:        optimizationSchemaName,
		Description: "Optimized prompt and the explanation of the applied changes",
		Schema:      GetOptimizationSchema(),
	}
}
