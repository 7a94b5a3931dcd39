// Package apperr defines the error kinds returned by the registries and the
// loan lifecycle. Every error carries the HTTP status it maps to and enough
// context (entity, field, value) to render a message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	TypeDuplicateIdentity ErrorType = "duplicate_identity"
	TypeKeyUnavailable    ErrorType = "key_unavailable"
	TypeLoanAlreadyClosed ErrorType = "loan_already_closed"
	TypeNotFound          ErrorType = "not_found"
	TypeValidation        ErrorType = "validation_error"
	TypeConflict          ErrorType = "conflict"
	TypeInternal          ErrorType = "internal_error"
)

type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"-"`
	Entity  string    `json:"entity,omitempty"`
	Field   string    `json:"field,omitempty"`
	Value   string    `json:"value,omitempty"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func NewDuplicateIdentityError(entity, field, value string) *AppError {
	return &AppError{
		Type:    TypeDuplicateIdentity,
		Message: fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		Code:    http.StatusConflict,
		Entity:  entity,
		Field:   field,
		Value:   value,
	}
}

func NewKeyUnavailableError(code string) *AppError {
	return &AppError{
		Type:    TypeKeyUnavailable,
		Message: fmt.Sprintf("key %q is already lent", code),
		Code:    http.StatusConflict,
		Entity:  "key",
		Field:   "code",
		Value:   code,
	}
}

func NewLoanAlreadyClosedError(loanID uint) *AppError {
	return &AppError{
		Type:    TypeLoanAlreadyClosed,
		Message: fmt.Sprintf("loan %d is already closed", loanID),
		Code:    http.StatusConflict,
		Entity:  "loan",
		Field:   "id",
		Value:   fmt.Sprint(loanID),
	}
}

func NewNotFoundError(entity, field, value string) *AppError {
	return &AppError{
		Type:    TypeNotFound,
		Message: fmt.Sprintf("%s with %s %q not found", entity, field, value),
		Code:    http.StatusNotFound,
		Entity:  entity,
		Field:   field,
		Value:   value,
	}
}

// NewValidationError reports malformed input. details, when given, is the
// first element only.
func NewValidationError(entity, message string, details ...string) *AppError {
	e := &AppError{
		Type:    TypeValidation,
		Message: message,
		Code:    http.StatusBadRequest,
		Entity:  entity,
	}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// NewFieldError is a validation error on a single field.
func NewFieldError(entity, field, value, message string) *AppError {
	e := NewValidationError(entity, message)
	e.Field = field
	e.Value = value
	return e
}

func NewConflictError(message string, details ...string) *AppError {
	e := &AppError{Type: TypeConflict, Message: message, Code: http.StatusConflict}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func NewInternalError(message string, details ...string) *AppError {
	e := &AppError{Type: TypeInternal, Message: message, Code: http.StatusInternalServerError}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func Get(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func Is(err error, t ErrorType) bool {
	appErr := Get(err)
	return appErr != nil && appErr.Type == t
}

func IsDuplicateIdentity(err error) bool { return Is(err, TypeDuplicateIdentity) }
func IsKeyUnavailable(err error) bool    { return Is(err, TypeKeyUnavailable) }
func IsLoanAlreadyClosed(err error) bool { return Is(err, TypeLoanAlreadyClosed) }
func IsNotFound(err error) bool          { return Is(err, TypeNotFound) }
func IsValidation(err error) bool        { return Is(err, TypeValidation) }
func IsConflict(err error) bool          { return Is(err, TypeConflict) }
