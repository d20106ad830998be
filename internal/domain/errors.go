package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCriteria signals malformed search criteria supplied by the caller.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrInvalidOperation signals a malformed query operation supplied by the caller.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// OperationError wraps ErrInvalidOperation with the position and kind of the offending operation.
type OperationError struct {
	Index  int
	Kind   string
	Reason string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: operation %d (%s): %s", ErrInvalidOperation.Error(), e.Index, e.Kind, e.Reason)
}

func (e *OperationError) Unwrap() error { return ErrInvalidOperation }

// NewOperationError creates an invalid operation error.
func NewOperationError(index int, kind, reason string) error {
	return &OperationError{Index: index, Kind: kind, Reason: reason}
}
