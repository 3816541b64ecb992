package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType is the structured error kind callers branch on
// (retry, redirect to login, show a field error, ...).
type ErrorType string

const (
	ErrorTypeAuth            ErrorType = "AUTH_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeUpload          ErrorType = "UPLOAD_ERROR"
	ErrorTypeUnknownProvider ErrorType = "UNKNOWN_PROVIDER_ERROR"
	ErrorTypeConflict        ErrorType = "CONFLICT"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField     ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidDate       ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEmail      ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidSalary     ErrorCode = "INVALID_SALARY"
	ErrCodePasswordMismatch  ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeWeakPassword      ErrorCode = "WEAK_PASSWORD"
	ErrCodeInvalidBlobKey    ErrorCode = "INVALID_BLOB_KEY"
	ErrCodeEmptyPatch        ErrorCode = "EMPTY_PATCH"
	ErrCodeUnknownField      ErrorCode = "UNKNOWN_FIELD"
	ErrCodeNoDraft           ErrorCode = "NO_DRAFT"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeRequestValidation ErrorCode = "REQUEST_VALIDATION"

	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeBlobNotFound     ErrorCode = "BLOB_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSessionRevoked     ErrorCode = "SESSION_REVOKED"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"

	ErrCodeUploadFailed     ErrorCode = "UPLOAD_FAILED"
	ErrCodeProviderFailure  ErrorCode = "PROVIDER_FAILURE"
	ErrCodeMutationInFlight ErrorCode = "MUTATION_IN_FLIGHT"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code, so package
// sentinels keep matching after WithCause/WithDetails copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy of e carrying cause. Sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy of e with a different user-visible message.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
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
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewAuthError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeAuth,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewUploadError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpload,
		Code:       ErrCodeUploadFailed,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func NewProviderError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownProvider,
		Code:       ErrCodeProviderFailure,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrInvalidCredentials = NewAuthError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrEmailTaken         = NewAuthError("Email already registered", ErrCodeEmailTaken)
	ErrUserInactive       = NewAuthError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewAuthError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewAuthError("Token has expired", ErrCodeTokenExpired)
	ErrSessionRevoked     = NewAuthError("Session has been signed out", ErrCodeSessionRevoked)
	ErrMissingToken       = NewAuthError("Missing authorization token", ErrCodeMissingToken)
	ErrPasswordMismatch   = NewValidationError("Password do not match", ErrCodePasswordMismatch)
	ErrMutationInFlight   = NewConflictError("Another change to this employee is still in progress", ErrCodeMutationInFlight)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf resolves the error kind through any wrapping. Errors that carry no
// AppError are opaque provider failures.
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeUnknownProvider
}

// StatusFor maps an error to the HTTP status of its kind.
func StatusFor(err error) int {
	if appErr, ok := IsAppError(err); ok && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	switch KindOf(err) {
	case ErrorTypeAuth:
		return http.StatusUnauthorized
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type Response struct {
	Error *AppError `json:"error"`
}

// ToResponse converts any error into the wire shape. Opaque errors never leak
// their cause to the client.
func ToResponse(err error) (int, Response) {
	if appErr, ok := IsAppError(err); ok {
		return StatusFor(err), Response{Error: appErr}
	}
	return http.StatusInternalServerError, Response{Error: NewProviderError("Unexpected provider failure", err)}
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
