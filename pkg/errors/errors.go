package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes returned to API clients
const (
	CodeUnknownProcessType = "UNKNOWN_PROCESS_TYPE"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUnknown            = "UNKNOWN_ERROR"
)

// AppError is the base interface for all application errors
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// UnknownProcessTypeError is returned when a process type has no registered configuration.
// Level count drives the legal status vocabulary, so callers must never fall back to a default.
type UnknownProcessTypeError struct {
	ProcessType string
}

func (e *UnknownProcessTypeError) Error() string {
	return fmt.Sprintf("unknown process type '%s'", e.ProcessType)
}

func (e *UnknownProcessTypeError) HTTPStatus() int { return http.StatusBadRequest }
func (e *UnknownProcessTypeError) Code() string    { return CodeUnknownProcessType }

// NewUnknownProcessTypeError creates a new UnknownProcessTypeError
func NewUnknownProcessTypeError(processType string) *UnknownProcessTypeError {
	return &UnknownProcessTypeError{ProcessType: processType}
}

// InvalidTransitionError represents an action attempted from a terminal or level-mismatched state
type InvalidTransitionError struct {
	RecordID string
	From     string
	Action   string
}

func (e *InvalidTransitionError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("invalid transition: cannot %s record '%s' from %s", e.Action, e.RecordID, e.From)
	}
	return fmt.Sprintf("invalid transition: cannot %s from %s", e.Action, e.From)
}

func (e *InvalidTransitionError) HTTPStatus() int { return http.StatusConflict }
func (e *InvalidTransitionError) Code() string    { return CodeInvalidTransition }

// NewInvalidTransitionError creates a new InvalidTransitionError
func NewInvalidTransitionError(recordID, from, action string) *InvalidTransitionError {
	return &InvalidTransitionError{RecordID: recordID, From: from, Action: action}
}

// NotFoundError is returned when a record id does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return CodeNotFound }

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents invalid input. The caller must re-collect input and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return CodeValidation }

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError is returned when a unique key is already taken
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	if e.Field == "" || e.Value == "" {
		return fmt.Sprintf("%s already exists", e.Resource)
	}
	return fmt.Sprintf("%s with %s '%s' already exists", e.Resource, e.Field, e.Value)
}

func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }
func (e *ConflictError) Code() string    { return CodeConflict }

// NewConflictError creates a new ConflictError
func NewConflictError(resource, field, value string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}

// InternalError wraps an unexpected failure
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause == nil {
		return "internal error: " + e.Message
	}
	return fmt.Sprintf("internal error: %s: %v", e.Message, e.Cause)
}

func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Code() string    { return CodeInternal }
func (e *InternalError) Unwrap() error   { return e.Cause }

// NewInternalError creates a new InternalError
func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{Message: message, Cause: cause}
}

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// IsUnknownProcessType checks if an error is an UnknownProcessTypeError
func IsUnknownProcessType(err error) bool { return is[*UnknownProcessTypeError](err) }

// IsInvalidTransition checks if an error is an InvalidTransitionError
func IsInvalidTransition(err error) bool { return is[*InvalidTransitionError](err) }

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool { return is[*NotFoundError](err) }

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool { return is[*ValidationError](err) }

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool { return is[*ConflictError](err) }

// GetHTTPStatus returns the HTTP status code for an error, 500 for errors outside the taxonomy
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code for an error, CodeUnknown for errors outside the taxonomy
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return CodeUnknown
}

// ErrorResponse is the serialisable form of an error
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToResponse converts an error to an ErrorResponse
func ToResponse(err error) ErrorResponse {
	return ErrorResponse{
		Code:    GetErrorCode(err),
		Message: err.Error(),
	}
}
