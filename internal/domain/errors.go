package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Assessment specific errors
	ErrSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrInvalidAnswer      ErrorCode = "INVALID_ANSWER"
	ErrIncompleteAnswers  ErrorCode = "INCOMPLETE_ANSWERS"
	ErrGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrEvaluationFailed   ErrorCode = "EVALUATION_FAILED"
	ErrPersistenceFailure ErrorCode = "PERSISTENCE_ERROR"
	ErrNoHistory          ErrorCode = "NO_HISTORY"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewSessionNotFoundError(userID string) *DomainError {
	return NewError(ErrSessionNotFound, fmt.Sprintf("no assessment in progress for user %s", userID), nil)
}

func NewInvalidAnswerError(message string) *DomainError {
	return NewError(ErrInvalidAnswer, message, nil)
}

func NewNoHistoryError(skill string) *DomainError {
	return NewError(ErrNoHistory, fmt.Sprintf("no completed assessments for skill %q", skill), nil)
}

// ValidationKind classifies a structural mismatch in model output.
type ValidationKind string

const (
	ValidationMissingField ValidationKind = "missing_field"
	ValidationWrongType    ValidationKind = "wrong_type"
	ValidationOutOfRange   ValidationKind = "out_of_range"
	ValidationWrongLength  ValidationKind = "wrong_length"
)

// ValidationError reports the first structural violation found in model
// output. Field is a slash-separated path ("questions/2/options"), "$" for
// the document root.
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func NewValidationError(kind ValidationKind, field string) *ValidationError {
	if field == "" {
		field = "$"
	}
	return &ValidationError{Kind: kind, Field: field}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s at %s", e.Kind, e.Field)
}

// Prefixed returns a copy whose field path is nested under prefix.
func (e *ValidationError) Prefixed(prefix string) *ValidationError {
	if e.Field == "$" {
		return &ValidationError{Kind: e.Kind, Field: prefix}
	}
	return &ValidationError{Kind: e.Kind, Field: prefix + "/" + e.Field}
}

// IncompleteError is returned when answers are submitted before every
// question has one.
type IncompleteError struct {
	MissingIndices []int
}

func (e *IncompleteError) Error() string {
	parts := make([]string, len(e.MissingIndices))
	for i, idx := range e.MissingIndices {
		parts[i] = fmt.Sprint(idx)
	}
	return fmt.Sprintf("answers missing for questions [%s]", strings.Join(parts, ", "))
}

// GenerationFailedError is terminal for one quiz generation attempt:
// structural retries were exhausted or the model call itself failed.
type GenerationFailedError struct {
	Skill    string
	Attempts int
	Err      error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("quiz generation for %q failed after %d attempt(s): %v", e.Skill, e.Attempts, e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// EvaluationFailedError is the evaluation counterpart of
// GenerationFailedError.
type EvaluationFailedError struct {
	Attempts int
	Err      error
}

func (e *EvaluationFailedError) Error() string {
	return fmt.Sprintf("answer evaluation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *EvaluationFailedError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure of the history store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
