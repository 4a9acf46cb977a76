package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means an operation needed a signed-in user and none exists.
	ErrAuthRequired = errors.New("auth required")
	// ErrNotFound is a non-fatal empty lookup result, not a fault.
	ErrNotFound = errors.New("not found")
)

// FetchError wraps a failed collection load.
func FetchError(err error) error {
	return fmt.Errorf("fetch tasks: %w", err)
}

// MutationError wraps a failed create, update or delete.
func MutationError(op string, err error) error {
	return fmt.Errorf("%s task: %w", op, err)
}
