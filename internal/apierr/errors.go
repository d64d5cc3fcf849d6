package apierr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// GRAPH_ - dataset and graph errors
	ErrGraphNoData     ErrorCode = "GRAPH_NO_DATA"
	ErrGraphEncode     ErrorCode = "GRAPH_ENCODE_FAILED"
	ErrGraphLoadFailed ErrorCode = "GRAPH_LOAD_FAILED"

	// LAYOUT_ - simulation control errors
	ErrLayoutUnknownNode ErrorCode = "LAYOUT_UNKNOWN_NODE"
	ErrLayoutInvalidPin  ErrorCode = "LAYOUT_INVALID_PIN"

	// SYSTEM_ - server errors
	ErrSystemInternal         ErrorCode = "SYSTEM_INTERNAL"
	ErrSystemUnavailable      ErrorCode = "SYSTEM_UNAVAILABLE"
	ErrSystemMethodNotAllowed ErrorCode = "SYSTEM_METHOD_NOT_ALLOWED"

	// VALIDATION_ - request validation errors
	ErrValidationInvalidJSON  ErrorCode = "VALIDATION_INVALID_JSON"
	ErrValidationMissingField ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrValidationInvalidValue ErrorCode = "VALIDATION_INVALID_VALUE"

	// RATE_LIMIT_
	ErrRateLimitGlobal ErrorCode = "RATE_LIMIT_GLOBAL"
	ErrRateLimitIP     ErrorCode = "RATE_LIMIT_IP"
)

// Error represents a structured API error
type Error struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	status    int
}

// ErrorResponse is the top-level error response wrapper
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// New creates a new API error
func New(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, status: status}
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// WithRequestID adds a request ID to the error
func (e *Error) WithRequestID(requestID string) *Error {
	e.RequestID = requestID
	return e
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Status returns the HTTP status code
func (e *Error) Status() int {
	return e.status
}

// WriteError writes a structured error response
func WriteError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: err})
}

// GraphNoData reports that no dataset has been loaded.
func GraphNoData() *Error {
	return New(ErrGraphNoData, "No graph data available", http.StatusNotFound)
}

// GraphEncode reports a failure serializing graph data.
func GraphEncode(message string) *Error {
	if message == "" {
		message = "Failed to encode graph data"
	}
	return New(ErrGraphEncode, message, http.StatusInternalServerError)
}

// GraphLoadFailed reports a failed dataset load.
func GraphLoadFailed(message string) *Error {
	if message == "" {
		message = "Failed to load publication records"
	}
	return New(ErrGraphLoadFailed, message, http.StatusServiceUnavailable)
}

// LayoutUnknownNode reports a pin or unpin for an id not in the graph.
func LayoutUnknownNode(id string) *Error {
	return New(ErrLayoutUnknownNode, "Unknown node: "+id, http.StatusNotFound).
		WithDetails(map[string]interface{}{"id": id})
}

// LayoutInvalidPin reports an unusable pin position.
func LayoutInvalidPin(message string) *Error {
	if message == "" {
		message = "Invalid pin position"
	}
	return New(ErrLayoutInvalidPin, message, http.StatusBadRequest)
}

// SystemInternal creates an internal server error
func SystemInternal(message string) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return New(ErrSystemInternal, message, http.StatusInternalServerError)
}

// SystemUnavailable creates a service unavailable error
func SystemUnavailable(message string) *Error {
	if message == "" {
		message = "Service unavailable"
	}
	return New(ErrSystemUnavailable, message, http.StatusServiceUnavailable)
}

// SystemMethodNotAllowed reports a known path requested with the wrong method
func SystemMethodNotAllowed(method string) *Error {
	return New(ErrSystemMethodNotAllowed, "Method not allowed: "+method, http.StatusMethodNotAllowed)
}

// ValidationInvalidJSON creates an invalid JSON error
func ValidationInvalidJSON() *Error {
	return New(ErrValidationInvalidJSON, "Invalid JSON request body", http.StatusBadRequest)
}

// ValidationMissingField creates a missing field error
func ValidationMissingField(field string) *Error {
	return New(ErrValidationMissingField, "Missing required field: "+field, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// ValidationInvalidValue creates an invalid value error
func ValidationInvalidValue(field string, message string) *Error {
	if message == "" {
		message = "Invalid value for field: " + field
	}
	return New(ErrValidationInvalidValue, message, http.StatusBadRequest).
		WithDetails(map[string]interface{}{"field": field})
}

// RateLimitGlobal creates a global rate limit error
func RateLimitGlobal() *Error {
	return New(ErrRateLimitGlobal, "Rate limit exceeded - too many requests globally", http.StatusTooManyRequests)
}

// RateLimitIP creates an IP rate limit error
func RateLimitIP() *Error {
	return New(ErrRateLimitIP, "Rate limit exceeded - too many requests from your IP", http.StatusTooManyRequests)
}

// GetRequestID extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// WriteErrorWithContext writes a structured error response with request ID from context
func WriteErrorWithContext(w http.ResponseWriter, r *http.Request, err *Error) {
	if reqID := GetRequestID(r.Context()); reqID != "" {
		err = err.WithRequestID(reqID)
	}
	WriteError(w, err)
}
