package services

import "errors"

// ErrorKind classifies a service failure so controllers can pick the HTTP
// status without inspecting messages.
type ErrorKind int

const (
	// KindValidation means the input was malformed or missing
	KindValidation ErrorKind = iota
	// KindNotFound means the entity is absent or already in a terminal state
	KindNotFound
	// KindConflict means a uniqueness rule was violated
	KindConflict
	// KindBlocked means a state transition is not allowed right now
	KindBlocked
	// KindUnexpected covers everything else
	KindUnexpected
)

// ServiceError is the failure type every service returns. Messages are
// human-readable and surfaced to the API caller as-is.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure
func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates a not-found failure
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

// NewConflictError creates a uniqueness-violation failure
func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

// NewBlockedError creates a blocked-transition failure
func NewBlockedError(message string) *ServiceError {
	return &ServiceError{Kind: KindBlocked, Message: message}
}

// NewUnexpectedError wraps an underlying error as an unexpected failure
func NewUnexpectedError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns the kind of a service failure, or KindUnexpected when err
// is not a ServiceError.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnexpected
}
