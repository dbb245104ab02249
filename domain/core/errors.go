package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Configuration errors: a derivation was asked for before its
	// required inputs were set. These are caller bugs, never defaults.
	ErrIndicatorRequired = errors.New("indicator not set")
	ErrYearRequired      = errors.New("year not set")

	// Input errors
	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrUnknownColumn    = errors.New("unknown table column")

	// Dataset errors
	ErrEmptyDataset  = errors.New("dataset contains no usable rows")
	ErrMissingColumn = errors.New("required column missing from dataset")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUnknownIndicatorError(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownIndicator, id)
}

func NewUnknownColumnError(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, id)
}

func NewMissingColumnError(header string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, header)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigError reports whether err is a derivation precondition failure
func IsConfigError(err error) bool {
	return errors.Is(err, ErrIndicatorRequired) ||
		errors.Is(err, ErrYearRequired)
}

// IsInputError reports whether err came from rejecting caller input
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownIndicator) ||
		errors.Is(err, ErrUnknownColumn)
}
