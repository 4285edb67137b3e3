package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidTitle     ErrorCode = "INVALID_TITLE"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidType      ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"
	ErrCodeInvalidFrequency ErrorCode = "INVALID_FREQUENCY"
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"

	ErrCodeTooManyOccurrences ErrorCode = "TOO_MANY_OCCURRENCES"

	ErrCodeCategoryNotFound     ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCategoryExists       ErrorCode = "CATEGORY_EXISTS"
	ErrCodeCategoryInactive     ErrorCode = "CATEGORY_INACTIVE"
	ErrCodeCategoryTypeMismatch ErrorCode = "CATEGORY_TYPE_MISMATCH"

	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeRecurrenceNotFound  ErrorCode = "RECURRENCE_NOT_FOUND"
	ErrCodeBudgetNotFound      ErrorCode = "BUDGET_NOT_FOUND"
	ErrCodeUnauthorizedAccess  ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInsufficientRights  ErrorCode = "INSUFFICIENT_PERMISSIONS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodePasswordMismatch   ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func newAppError(t ErrorType, status int, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: status}
}

func (e *AppError) Error() string {
	if msgs := e.fieldMessages(); len(msgs) > 0 {
		return msgs[0]
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message, or falls back to Message.
func (e *AppError) GetDetailedMessage() string {
	if msgs := e.fieldMessages(); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return e.Message
}

func (e *AppError) fieldMessages() []string {
	details, ok := e.Details.(ValidationErrors)
	if !ok {
		return nil
	}
	msgs := make([]string, 0, len(details.Errors))
	for _, fe := range details.Errors {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on the error code, so copies made by WithCause still satisfy errors.Is
// against the package sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.StatusCode == e.StatusCode
}

// WithCause returns a copy of e wrapping cause. Sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, code, message)
}

// NewValidationFieldError reports a single bad field under VALIDATION_FAILED.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	e := newAppError(ErrorTypeValidation, http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed")
	e.Details = ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}}
	return e
}

func NewUnprocessableError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusUnprocessableEntity, code, message)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, code, message)
}

func NewInternalError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeInternal, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	e.Cause = cause
	return e
}

var (
	ErrCategoryNotFound     = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrCategoryExists       = NewConflictError("Category already exists for this type", ErrCodeCategoryExists)
	ErrCategoryInactive     = NewValidationError("Category is inactive", ErrCodeCategoryInactive)
	ErrCategoryTypeMismatch = NewValidationError("Category does not belong to this ledger", ErrCodeCategoryTypeMismatch)

	ErrTransactionNotFound = NewNotFoundError("Transaction not found", ErrCodeTransactionNotFound)
	ErrRecurrenceNotFound  = NewNotFoundError("Recurring transaction not found", ErrCodeRecurrenceNotFound)
	ErrBudgetNotFound      = NewNotFoundError("Budget not found", ErrCodeBudgetNotFound)
	ErrInvalidFrequency    = NewValidationError("Unknown recurrence frequency", ErrCodeInvalidFrequency)
	ErrInsufficientData    = NewUnprocessableError("Not enough data to forecast", ErrCodeInsufficientData)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInsufficientRights = NewForbiddenError("Insufficient permissions", ErrCodeInsufficientRights)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmailTaken         = NewConflictError("Email is already registered", ErrCodeEmailTaken)
	ErrPasswordMismatch   = NewValidationError("New password and confirmation do not match", ErrCodePasswordMismatch)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
