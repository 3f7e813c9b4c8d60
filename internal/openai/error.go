package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a generation failure so callers can decide whether a
// retry makes sense without parsing error strings.
type ErrorKind int

const (
	// ErrNetwork is a transport failure before a response was received.
	ErrNetwork ErrorKind = iota
	// ErrTimeout means the call did not complete within its bound.
	ErrTimeout
	// ErrUpstream is a non-2xx response from the service.
	ErrUpstream
	// ErrMalformedResponse is a 2xx response whose body does not have the
	// expected structure.
	ErrMalformedResponse
	// ErrDecode means the embedded image payload could not be decoded.
	ErrDecode
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case ErrNetwork:
		return "network"
	case ErrTimeout:
		return "timeout"
	case ErrUpstream:
		return "upstream_error"
	case ErrMalformedResponse:
		return "malformed_response"
	case ErrDecode:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Retryable reports whether the failure is transient from the caller's point
// of view: the service was unreachable or slow, rather than answering badly.
func (k ErrorKind) Retryable() bool {
	return k == ErrNetwork || k == ErrTimeout
}

// Error is the failure type returned by both generation clients. It wraps the
// underlying cause and carries the HTTP status for upstream errors.
type Error struct {
	Kind   ErrorKind
	Op     string // "chat" or "image"
	Status int    // HTTP status, set for ErrUpstream
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("openai %s: %s (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("openai %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("openai %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// classifyTransport maps a transport-level error to Timeout or Network.
func classifyTransport(op string, err error) *Error {
	kind := ErrNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = ErrTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
