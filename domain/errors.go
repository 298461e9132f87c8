package domain

import (
	"errors"
	"fmt"
)

// Error kinds for the orchestration pipeline. Callers classify failures
// with errors.Is; the wrapped message carries the human-readable detail.
var (
	// ErrTransport marks a network-level failure reaching an endpoint.
	ErrTransport = errors.New("transport error")
	// ErrService marks an endpoint that responded with a non-success
	// status or a body whose envelope could not be parsed.
	ErrService = errors.New("service error")
	// ErrDecode marks malformed base64 or audio container data.
	ErrDecode = errors.New("decode error")
	// ErrState marks an operation that is invalid in the current state,
	// such as starting to listen while already listening.
	ErrState = errors.New("state error")
)

// TransportError wraps err as a transport failure.
func TransportError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}

// ServiceError reports a reachable endpoint that misbehaved.
func ServiceError(op string, detail string) error {
	return fmt.Errorf("%w: %s: %s", ErrService, op, detail)
}

// DecodeError wraps err as a payload decoding failure.
func DecodeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, op, err)
}

// StateError reports an operation rejected in the current state.
func StateError(detail string) error {
	return fmt.Errorf("%w: %s", ErrState, detail)
}
