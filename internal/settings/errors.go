// File: internal/settings/errors.go
package settings

import "errors"

// Sentinel errors returned by the Loader. Callers should match them with errors.Is,
// since the returned errors are wrapped with the offending element or parser diagnostic.
var (
	// ErrInvalidArgument is returned when Load receives empty XML or a nil discovery context.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedInput is returned when the run-settings text is not well-formed XML.
	ErrMalformedInput = errors.New("malformed run settings")
	// ErrInvalidValue is returned when an element holds a value that cannot be
	// coerced to its type or falls outside its enumerated set.
	ErrInvalidValue = errors.New("invalid value")
)
