package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("activity not found")
	ErrEmptyID  = errors.New("empty activity identifier")
)
