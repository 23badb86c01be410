package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Request errors
	ErrorTypeBadRequest      ErrorType = "BAD_REQUEST"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeRateLimit       ErrorType = "RATE_LIMIT"

	// Pipeline errors
	ErrorTypeClassifier    ErrorType = "CLASSIFIER"
	ErrorTypeSourceMissing ErrorType = "SOURCE_MISSING"
	ErrorTypeUserNotFound  ErrorType = "USER_NOT_FOUND"
	ErrorTypeUnknownTheme  ErrorType = "UNKNOWN_THEME"
	ErrorTypePlaceholder   ErrorType = "PLACEHOLDER_THEME"

	// Infrastructure errors
	ErrorTypePersistence ErrorType = "PERSISTENCE"
	ErrorTypeInternal    ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Reason returns the message together with the cause, without the type prefix.
// It is the text surfaced to callers when a failure is reported in-band.
func (e *AppError) Reason() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// Constructor functions

// NewBadRequestError creates an input validation error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewUnauthenticatedError creates an error for a missing principal
func NewUnauthenticatedError(message string) *AppError {
	if message == "" {
		message = "User not authenticated"
	}
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		StackTrace: captureStackTrace(),
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimit,
		Message:    fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
		StackTrace: captureStackTrace(),
	}
}

// NewClassifierError creates a theme classification failure
func NewClassifierError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeClassifier,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewSourceMissingError reports a template whose source artifact does not resolve
func NewSourceMissingError(sourceID string) *AppError {
	return &AppError{
		Type:       ErrorTypeSourceMissing,
		Message:    fmt.Sprintf("Original object not found: %s", sourceID),
		Details:    map[string]interface{}{"sourceArtifactId": sourceID},
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewUserNotFoundError reports a link against a user that does not exist
func NewUserNotFoundError(userID string) *AppError {
	return &AppError{
		Type:       ErrorTypeUserNotFound,
		Message:    fmt.Sprintf("user not found: %s", userID),
		Details:    map[string]interface{}{"userId": userID},
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewUnknownThemeError reports a theme id that is not in the catalog
func NewUnknownThemeError(themeID int) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownTheme,
		Message:    fmt.Sprintf("Invalid theme ID: %d", themeID),
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewPlaceholderThemeError reports an attempt to load the source of a placeholder template
func NewPlaceholderThemeError(themeID int) *AppError {
	return &AppError{
		Type:       ErrorTypePlaceholder,
		Message:    fmt.Sprintf("theme %d configuration not finalized", themeID),
		HTTPStatus: http.StatusConflict,
		StackTrace: captureStackTrace(),
	}
}

// NewPersistenceError creates a store failure
func NewPersistenceError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Message:    fmt.Sprintf("store operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsBadRequest checks if an error is an input validation error
func IsBadRequest(err error) bool {
	return IsType(err, ErrorTypeBadRequest)
}

// IsUnauthenticated checks if an error is an authentication error
func IsUnauthenticated(err error) bool {
	return IsType(err, ErrorTypeUnauthenticated)
}

// IsClassifier checks if an error is a classification failure
func IsClassifier(err error) bool {
	return IsType(err, ErrorTypeClassifier)
}

// IsSourceMissing checks if an error is a missing source artifact
func IsSourceMissing(err error) bool {
	return IsType(err, ErrorTypeSourceMissing)
}

// IsUserNotFound checks if an error is a missing user
func IsUserNotFound(err error) bool {
	return IsType(err, ErrorTypeUserNotFound)
}

// IsPersistence checks if an error is a store failure
func IsPersistence(err error) bool {
	return IsType(err, ErrorTypePersistence)
}

// ReasonOf returns the in-band reason text for any error
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Reason()
	}
	return err.Error()
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
