package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for the fetch-normalize-fallback path.
var (
	ErrTransport  = errors.New("upstream unreachable")
	ErrProtocol   = errors.New("upstream returned an error status")
	ErrFormat     = errors.New("upstream returned a malformed body")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
)

// Deployment faults, surfaced as 5xx.
var (
	ErrSnapshotUnavailable = errors.New("fallback snapshot unavailable")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// TransportError means no response was received: refused connection,
// DNS failure, timeout or cancellation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ProtocolError means a response arrived with a non-2xx status. A 404 is an
// authoritative negative answer and also matches ErrNotFound.
type ProtocolError struct {
	StatusCode int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *ProtocolError) Is(target error) bool {
	if target == ErrProtocol {
		return true
	}
	return target == ErrNotFound && e.IsNotFound()
}

func (e *ProtocolError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// FormatError means the body was received but cannot be used.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error: %s: %v", e.Reason, e.Err)
	}
	return "format error: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// NotFoundError is a negative answer from an otherwise healthy source.
type NotFoundError struct {
	Kind Kind
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return "not found"
	}
	return string(e.Kind) + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError rejects caller input before any source is consulted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFound builds a NotFoundError for kind.
func NotFound(kind Kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}
