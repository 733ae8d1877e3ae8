package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorCode classifies update failures.
type ErrorCode int

const (
	// ErrNetwork covers dial failures, resets and timeouts
	ErrNetwork ErrorCode = iota
	// ErrHTTPStatus is a non-2xx HTTP status
	ErrHTTPStatus
	// ErrDecode is a response body that is not the expected JSON
	ErrDecode
	// ErrRejected is a well-formed response whose status is not "success"
	ErrRejected
	// ErrCancelled means the caller's context ended first
	ErrCancelled
	// ErrEncode means the request could not be built, so nothing was sent
	ErrEncode
)

// String implements fmt.Stringer
func (c ErrorCode) String() string {
	switch c {
	case ErrNetwork:
		return "network"
	case ErrHTTPStatus:
		return "http_status"
	case ErrDecode:
		return "decode"
	case ErrRejected:
		return "rejected"
	case ErrCancelled:
		return "cancelled"
	case ErrEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// UpdateError is a classified update failure with a user-facing hint.
type UpdateError struct {
	Code       ErrorCode
	Action     Action
	StatusCode int    // HTTP status, when known
	Status     string // response status field, for ErrRejected
	Message    string
	Hint       string
	Err        error
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Hint != "" {
		return msg + ". " + e.Hint
	}
	return msg
}

// Unwrap returns the underlying error
func (e *UpdateError) Unwrap() error { return e.Err }

// Retryable reports whether sending the same update again could succeed.
func (e *UpdateError) Retryable() bool {
	switch e.Code {
	case ErrNetwork:
		return true
	case ErrHTTPStatus:
		return e.StatusCode >= 500 || e.StatusCode == 429
	default:
		return false
	}
}

// Classify maps an error returned by Send to an *UpdateError.
// Errors that already are *UpdateError are returned unchanged.
func Classify(err error) *UpdateError {
	if err == nil {
		return nil
	}

	var ue *UpdateError
	if errors.As(err, &ue) {
		return ue
	}

	if errors.Is(err, context.Canceled) {
		return &UpdateError{
			Code:    ErrCancelled,
			Message: "Update cancelled",
			Err:     err,
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpdateError{
			Code:    ErrNetwork,
			Message: "Update request timed out",
			Hint:    "Check that the server is reachable or raise --request-timeout",
			Err:     err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &UpdateError{
			Code:    ErrNetwork,
			Message: "Could not reach update server",
			Hint:    "Check --update-url and your network connection",
			Err:     err,
		}
	}

	// the HTTP client wraps every transport failure in *url.Error, so
	// anything left failed locally and would fail the same way again
	return &UpdateError{
		Code:    ErrEncode,
		Message: "Update failed",
		Err:     err,
	}
}

// IsRejected reports whether err is a server rejection
func IsRejected(err error) bool {
	var ue *UpdateError
	return errors.As(err, &ue) && ue.Code == ErrRejected
}
