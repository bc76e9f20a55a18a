package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError reports a lookup key that resolves to nothing in the store.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// UpstreamError wraps a failure of an external collaborator: a content
// source, the relational store or the search engine.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Source + " unavailable"
	}
	return e.Source + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstream(source string, err error) *UpstreamError {
	return &UpstreamError{Source: source, Err: err}
}
