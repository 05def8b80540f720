// Package errors provides the failure taxonomy for calls to the airline service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrServiceCall     = errors.New("service call failed")
	ErrTimeout         = errors.New("request timed out")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
)

// FailureKind classifies a ServiceCallFailure.
type FailureKind string

const (
	KindNetwork FailureKind = "network"
	KindTimeout FailureKind = "timeout"
	KindStatus  FailureKind = "status"
	KindDecode  FailureKind = "decode"
)

// maxBodyLen caps the response body kept for diagnostics.
const maxBodyLen = 4096

// ServiceCallFailure is the single error type returned by the service client.
// Connectivity errors, timeouts, non-success statuses and malformed bodies all
// collapse into it; Kind keeps the classification explicit.
type ServiceCallFailure struct {
	Kind       FailureKind
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceCallFailure) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%d %s: %s for url: %s", e.StatusCode, statusClass(e.StatusCode), http.StatusText(e.StatusCode), e.Endpoint)
	case KindTimeout:
		if e.Err != nil {
			return fmt.Sprintf("request to %s timed out: %v", e.Endpoint, e.Err)
		}
		return fmt.Sprintf("request to %s timed out", e.Endpoint)
	case KindDecode:
		if e.Err != nil {
			return fmt.Sprintf("invalid JSON in response from %s: %v", e.Endpoint, e.Err)
		}
		return fmt.Sprintf("invalid JSON in response from %s", e.Endpoint)
	default:
		if e.Err != nil {
			return fmt.Sprintf("connection to %s failed: %v", e.Endpoint, e.Err)
		}
		return fmt.Sprintf("connection to %s failed", e.Endpoint)
	}
}

func (e *ServiceCallFailure) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ServiceCallFailure) Is(target error) bool {
	switch target {
	case ErrServiceCall:
		return true
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrInvalidResponse:
		return e.Kind == KindDecode
	}
	if other, ok := target.(*ServiceCallFailure); ok {
		return other.Kind == e.Kind
	}
	return false
}

func statusClass(code int) string {
	if code >= 400 && code < 500 {
		return "Client Error"
	}
	if code >= 500 && code < 600 {
		return "Server Error"
	}
	return "Unexpected Status"
}

// NewNetworkError creates a failure for a connection-level error
func NewNetworkError(endpoint string, err error) *ServiceCallFailure {
	return &ServiceCallFailure{Kind: KindNetwork, Endpoint: endpoint, Err: err}
}

// NewTimeoutError creates a failure for a request that exceeded its deadline
func NewTimeoutError(endpoint string, err error) *ServiceCallFailure {
	return &ServiceCallFailure{Kind: KindTimeout, Endpoint: endpoint, Err: err}
}

// NewStatusError creates a failure for a non-2xx response. The body is
// truncated to 4KB.
func NewStatusError(statusCode int, endpoint, body string) *ServiceCallFailure {
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}
	return &ServiceCallFailure{Kind: KindStatus, Endpoint: endpoint, StatusCode: statusCode, Body: body}
}

// NewDecodeError creates a failure for a body that is not valid JSON
func NewDecodeError(endpoint string, err error) *ServiceCallFailure {
	return &ServiceCallFailure{Kind: KindDecode, Endpoint: endpoint, Err: err}
}

// AsServiceCallFailure extracts a ServiceCallFailure from an error chain.
func AsServiceCallFailure(err error) (*ServiceCallFailure, bool) {
	var f *ServiceCallFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func hasKind(err error, kind FailureKind) bool {
	f, ok := AsServiceCallFailure(err)
	return ok && f.Kind == kind
}

// IsTimeoutError reports whether err is a timed-out service call
func IsTimeoutError(err error) bool { return hasKind(err, KindTimeout) }

// IsNetworkError reports whether err is a connection-level failure
func IsNetworkError(err error) bool { return hasKind(err, KindNetwork) }

// IsStatusError reports whether err is a non-2xx response
func IsStatusError(err error) bool { return hasKind(err, KindStatus) }

// IsDecodeError reports whether err is a malformed response body
func IsDecodeError(err error) bool { return hasKind(err, KindDecode) }

// GetHTTPStatus returns the HTTP status carried by err, or 0.
func GetHTTPStatus(err error) int {
	if f, ok := AsServiceCallFailure(err); ok {
		return f.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or "".
func GetEndpoint(err error) string {
	if f, ok := AsServiceCallFailure(err); ok {
		return f.Endpoint
	}
	return ""
}

// GetResponseBody returns the diagnostic body carried by err, or "".
func GetResponseBody(err error) string {
	if f, ok := AsServiceCallFailure(err); ok {
		return f.Body
	}
	return ""
}
