package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSchemaMismatch marks upstream payloads that decoded but lack required fields.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
