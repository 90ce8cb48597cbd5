package handlers

import (
	"errors"
	"net/http"

	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
)

// Error codes returned in JSON bodies
const (
	CodeEmptyInput        = "empty_input"
	CodeInvalidOption     = "invalid_option"
	CodeMissingCredential = "missing_credential"
	CodeGenerationFailed  = "generation_failed"
)

const (
	messageEmptyInput    = "Escribe una idea o un prompt para optimizar."
	messageInvalidOption = "Tono o complejidad no válidos."
)

// Failure is how an optimization error is presented to clients
type Failure struct {
	Status  int
	Code    string
	Kind    string
	Message string
}

// ClassifyOptimizationError maps service and optimizer errors to an HTTP failure
func ClassifyOptimizationError(err error) Failure {
	switch {
	case errors.Is(err, prompt.ErrEmptyInput):
		return Failure{Status: http.StatusUnprocessableEntity, Code: CodeEmptyInput, Message: messageEmptyInput}
	case errors.Is(err, prompt.ErrInvalidOption):
		return Failure{Status: http.StatusBadRequest, Code: CodeInvalidOption, Message: messageInvalidOption}
	case optimizer.IsConfigurationError(err):
		return Failure{
			Status:  http.StatusServiceUnavailable,
			Code:    CodeMissingCredential,
			Kind:    string(optimizer.KindMissingCredential),
			Message: optimizer.MessageOf(err),
		}
	default:
		return Failure{
			Status:  http.StatusBadGateway,
			Code:    CodeGenerationFailed,
			Kind:    string(optimizer.KindOf(err)),
			Message: optimizer.MessageOf(err),
		}
	}
}
