package rawtree

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrMalformed reports text that is not well-formed markup.
	ErrMalformed = errors.New("malformed markup")
)
