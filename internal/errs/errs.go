// Package errs defines the SDK's error kinds as plain structs implementing
// error. Callers branch on kind with errors.As, never by comparing error
// strings.
package errs

import (
	"fmt"
	"net/http"
)

// StatusError represents a non-2xx HTTP response from a REST call.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d making %s call to %s: %s", e.StatusCode, e.Method, e.Path, e.Message)
}

// IsRetryable reports whether the request that produced this error is worth
// retrying.
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// ValidationError represents invalid caller input rejected before any network
// call was made — a bad price, an unbuildable order, a malformed request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid: %s", e.Reason)
}

// Validation formats a new *ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// SynchronisationError indicates two goroutines raced to authenticate or
// deauthenticate the same typestate client concurrently.
type SynchronisationError struct{}

func (e *SynchronisationError) Error() string {
	return "synchronisation error: concurrent authenticate/deauthenticate on the same client"
}

// InternalError wraps an unexpected failure from a dependency (codec, crypto
// library, driver) that the caller cannot meaningfully act on beyond retrying
// or reporting a bug.
type InternalError struct {
	Reason string
	Cause  error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Reason)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Internal wraps cause as an InternalError.
func Internal(reason string, cause error) error {
	return &InternalError{Reason: reason, Cause: cause}
}

// WebSocketError represents a failure in the duplex socket layer: a dropped
// connection, a protocol violation, a write after close.
type WebSocketError struct {
	Reason string
	Cause  error
}

func (e *WebSocketError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("websocket error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("websocket error: %s", e.Reason)
}

func (e *WebSocketError) Unwrap() error {
	return e.Cause
}

// GeoblockError indicates the venue rejected the request due to the caller's
// detected geographic location.
type GeoblockError struct {
	IP      string
	Country string
	Region  string
}

func (e *GeoblockError) Error() string {
	return fmt.Sprintf("access blocked from country: %s, region: %s, ip: %s", e.Country, e.Region, e.IP)
}
