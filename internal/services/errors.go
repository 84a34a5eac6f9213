package services

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UnsupportedMediaTypeError reports an upload outside the supported formats.
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q: upload a PDF or DOCX file", e.MediaType)
}

type BackendReason string

const (
	BackendReasonAuth      BackendReason = "auth"
	BackendReasonQuota     BackendReason = "quota"
	BackendReasonMalformed BackendReason = "malformed"
	BackendReasonTimeout   BackendReason = "timeout"
	BackendReasonUnknown   BackendReason = "unknown"
)

// Retryable reports whether another attempt could plausibly succeed.
func (r BackendReason) Retryable() bool {
	return r == BackendReasonTimeout || r == BackendReasonUnknown
}

// BackendError is a failed call to the generative backend.
type BackendError struct {
	Reason BackendReason
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generative backend error (%s)", e.Reason)
	}
	return fmt.Sprintf("generative backend error (%s): %v", e.Reason, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// SchemaParseError means the completion was not valid JSON. Raw holds the
// completion as received.
type SchemaParseError struct {
	Raw string
	Err error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("failed to parse completion as JSON: %v", e.Err)
}

func (e *SchemaParseError) Unwrap() error {
	return e.Err
}

// SchemaValidationError means the completion parsed but broke the declared
// schema.
type SchemaValidationError struct {
	Field   string
	Message string
	Raw     string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("completion violates schema at %s: %s", e.Field, e.Message)
}

// ErrEmptyCompletion is matched by every EmptyCompletionError.
var ErrEmptyCompletion = errors.New("empty completion")

type EmptyCompletionError struct {
	UseCase UseCase
}

func (e *EmptyCompletionError) Error() string {
	return fmt.Sprintf("generative backend returned an empty completion for %s", e.UseCase)
}

func (e *EmptyCompletionError) Is(target error) bool {
	return target == ErrEmptyCompletion
}

// BackendReasonOf returns the reason carried by err, if any.
func BackendReasonOf(err error) (BackendReason, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Reason, true
	}
	return "", false
}
