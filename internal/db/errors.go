package db

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized means the engine rejected the configured credentials.
	ErrUnauthorized = errors.New("db: unauthorized")
	// ErrUnreachable means no response came back from the engine at all.
	ErrUnreachable = errors.New("db: engine unreachable")
)

// Op constants name engine endpoints and store commands for error context.
const (
	OpSelect    = "SELECT"
	OpPing      = "PING"
	OpSIsMember = "SISMEMBER"
	OpSAdd      = "SADD"
	OpSRem      = "SREM"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// ConnectionError means the engine could not be reached or the exchange broke
// mid-flight. Body holds whatever payload was read before the failure and
// is nil when no response arrived.
type ConnectionError struct {
	Err  error
	Body []byte
}

func (e *ConnectionError) Error() string { return "connection: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// Is matches ErrUnreachable when the engine never answered.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrUnreachable && e.Body == nil
}

// ProtocolError is a non-2xx engine response.
type ProtocolError struct {
	StatusCode int
	Body       []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("engine returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap maps credential failures to ErrUnauthorized.
func (e *ProtocolError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}
