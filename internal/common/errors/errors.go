// Package errors provides the standardized error taxonomy shared by the
// prediction core and its HTTP/websocket front ends.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Startup / fatal
	ErrCodeModelLoadFailed     ErrorCode = "MODEL_LOAD_FAILED"
	ErrCodeModelNotInitialized ErrorCode = "MODEL_NOT_INITIALIZED"

	// Input validation
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// Prediction pipeline
	ErrCodeNormalizationFailed  ErrorCode = "NORMALIZATION_FAILED"
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeCategoryNotMapped    ErrorCode = "CATEGORY_NOT_MAPPED"
	ErrCodeResponseLookupFailed ErrorCode = "RESPONSE_LOOKUP_FAILED"

	// Infrastructure
	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeEscalationNotifyFailed ErrorCode = "ESCALATION_NOTIFY_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewModelLoadFailedError wraps an artifact load failure.
func NewModelLoadFailedError(artifact string, err error) *StandardError {
	e := newError(ErrCodeModelLoadFailed, "Model artifacts could not be loaded", err, false)
	e.Metadata = map[string]interface{}{"artifact": artifact}
	return e
}

// NewModelNotInitializedError is returned by every prediction entry point
// when startup did not produce a usable model.
func NewModelNotInitializedError() *StandardError {
	return newError(ErrCodeModelNotInitialized, "Chatbot not initialized properly", nil, false)
}

func NewInvalidRequestError(message string) *StandardError {
	return newError(ErrCodeInvalidRequest, message, nil, false)
}

func NewNormalizationFailedError(err error) *StandardError {
	return newError(ErrCodeNormalizationFailed, "Text normalization failed", err, false)
}

func NewClassificationFailedError(err error) *StandardError {
	return newError(ErrCodeClassificationFailed, "Prediction failed", err, false)
}

func NewCategoryNotMappedError(categoryID int) *StandardError {
	e := newError(ErrCodeCategoryNotMapped, "Category has no mapping entry", nil, false)
	e.Details = fmt.Sprintf("categoryId: %d", categoryID)
	e.Metadata = map[string]interface{}{"categoryId": categoryID}
	return e
}

func NewResponseLookupFailedError(err error) *StandardError {
	return newError(ErrCodeResponseLookupFailed, "Response lookup failed", err, false)
}

func NewSessionStoreFailedError(op string, err error) *StandardError {
	e := newError(ErrCodeSessionStoreFailed, "Session store operation failed", err, true)
	e.Metadata = map[string]interface{}{"operation": op}
	return e
}

func NewEscalationNotifyFailedError(err error) *StandardError {
	return newError(ErrCodeEscalationNotifyFailed, "Escalation notification failed", err, true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err (or anything it wraps) carries code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// HTTPStatusMapping maps error codes onto front-end status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidRequest:         http.StatusBadRequest,
	ErrCodeModelNotInitialized:    http.StatusInternalServerError,
	ErrCodeModelLoadFailed:        http.StatusInternalServerError,
	ErrCodeClassificationFailed:   http.StatusInternalServerError,
	ErrCodeNormalizationFailed:    http.StatusInternalServerError,
	ErrCodeResponseLookupFailed:   http.StatusInternalServerError,
	ErrCodeCategoryNotMapped:      http.StatusInternalServerError,
	ErrCodeSessionStoreFailed:     http.StatusServiceUnavailable,
	ErrCodeEscalationNotifyFailed: http.StatusBadGateway,
}

// HTTPStatus returns the status code for an error code, 500 when unknown.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MODEL"):
		return "STARTUP"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NORMALIZATION"),
		strings.Contains(codeStr, "CLASSIFICATION"),
		strings.Contains(codeStr, "CATEGORY"),
		strings.Contains(codeStr, "LOOKUP"):
		return "PREDICTION"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "ESCALATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

// ErrorResponse is the JSON body written for failed HTTP requests.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}

// ToResponse renders the error for API callers.
func (e *StandardError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code}
}
