package optimizer

import (
	"errors"
	"fmt"
)

// Kind classifies a failed optimization
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedResponse Kind = "malformed_response"
	KindTransport         Kind = "transport"
)

// User-facing messages, in the same language as the UI
const (
	messageMissingCredential = "API Key no encontrada. Configura GEMINI_API_KEY en el servidor para poder optimizar prompts."
	messageGenerationFailed  = "Falló la generación del prompt. Verifica tu API Key o intenta de nuevo."
)

// Sentinels for errors.Is
var (
	ErrMissingCredential = errors.New("generation credential missing")
	ErrEmptyResponse     = errors.New("empty generation response")
	ErrMalformedResponse = errors.New("malformed generation response")
	ErrTransport         = errors.New("generation transport failure")
)

// Error is returned by Client.Optimize for every failure
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindMissingCredential:
		return ErrMissingCredential
	case KindEmptyResponse:
		return ErrEmptyResponse
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindTransport:
		return ErrTransport
	}
	return nil
}

func newError(kind Kind, err error) *Error {
	message := messageGenerationFailed
	if kind == KindMissingCredential {
		message = messageMissingCredential
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsConfigurationError reports whether err is caused by server configuration
// rather than by the generation endpoint
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// KindOf returns the Kind of an optimizer error, or "" for anything else
func KindOf(err error) Kind {
	var optErr *Error
	if errors.As(err, &optErr) {
		return optErr.Kind
	}
	return ""
}

// MessageOf returns the user-facing message for err
func MessageOf(err error) string {
	var optErr *Error
	if errors.As(err, &optErr) {
		return optErr.Message
	}
	return messageGenerationFailed
}
