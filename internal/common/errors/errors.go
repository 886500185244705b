// Package errors provides the standardized error taxonomy for the resolver.
// An incomplete slot set is NOT an error — it is a normal dialog state and
// surfaces as a reprompt. Errors here cover infrastructure and gateway
// failures only.
package errors

import (
	"fmt"
	"time"
)

// ==========================================
// ERROR CODES
// ==========================================

type ErrorCode string

const (
	ErrCodeGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"
	ErrCodeGatewayRejected    ErrorCode = "GATEWAY_REJECTED"
	ErrCodeProfileLoadFailed  ErrorCode = "PROFILE_LOAD_FAILED"
	ErrCodeProfileSaveFailed  ErrorCode = "PROFILE_SAVE_FAILED"
	ErrCodePendingStoreFailed ErrorCode = "PENDING_STORE_FAILED"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
)

// ==========================================
// STANDARD ERROR
// ==========================================

// StandardError is the error shape every component returns and the API
// layer serializes. Retryable tells the caller whether repeating the same
// turn could succeed; the resolver itself never retries.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code ErrorCode, message string, retryable bool, details map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================================
// CONSTRUCTORS
// ==========================================

// NewGatewayUnavailableError reports that the calculation gateway could not
// be reached at all (dial failure, timeout).
func NewGatewayUnavailableError(cause error) *StandardError {
	return newError(ErrCodeGatewayUnavailable, "loan calculation gateway unreachable", true, map[string]interface{}{
		"cause": cause.Error(),
	})
}

// NewGatewayRejectedError reports a non-2xx gateway response. The gateway
// saw the request and said no; repeating the identical request will not help.
func NewGatewayRejectedError(status int, detail string) *StandardError {
	return newError(ErrCodeGatewayRejected, "loan calculation gateway rejected the request", false, map[string]interface{}{
		"status": status,
		"detail": detail,
	})
}

func NewProfileLoadFailedError(userID string, cause error) *StandardError {
	return newError(ErrCodeProfileLoadFailed, "failed to load user profile", true, map[string]interface{}{
		"user_id": userID,
		"cause":   cause.Error(),
	})
}

func NewProfileSaveFailedError(userID string, cause error) *StandardError {
	return newError(ErrCodeProfileSaveFailed, "failed to persist user profile", true, map[string]interface{}{
		"user_id": userID,
		"cause":   cause.Error(),
	})
}

func NewPendingStoreFailedError(conversationID string, cause error) *StandardError {
	return newError(ErrCodePendingStoreFailed, "failed to access pending dialog state", true, map[string]interface{}{
		"conversation_id": conversationID,
		"cause":           cause.Error(),
	})
}

func NewInvalidRequestError(message string) *StandardError {
	return newError(ErrCodeInvalidRequest, message, false, nil)
}

// ==========================================
// HELPERS
// ==========================================

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the error code, or empty for foreign errors.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ""
}
