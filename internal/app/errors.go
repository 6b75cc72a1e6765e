package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for service errors.
var (
	ErrUnknownCategory = errors.New("unknown code category")
)

// NewUnknownCategory builds an ErrUnknownCategory carrying the offending
// category name.
func NewUnknownCategory(category string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}
