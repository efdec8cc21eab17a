// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/story-registrar/internal/models"
)

var (
	// ErrConfiguration marks a request that cannot proceed because a required
	// contract reference is missing from both the request and the environment.
	ErrConfiguration      = errors.New("configuration error")
	ErrMissingCollection  = fmt.Errorf("%w: missing spgNftContract for mintNew mode", ErrConfiguration)
	ErrMissingNFTContract = fmt.Errorf("%w: missing nftContract for useExisting mode", ErrConfiguration)

	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation error")

	ErrLedgerDisabled = errors.New("registration ledger is not configured")
)

// ValidationError wraps a parse failure so callers can test for ErrValidation
// while still reaching the underlying cause.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// CollaboratorError is a failure reported by the registrar. Its message is the
// registrar's message, unchanged.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func invalidFlavor(err error) error {
	return &ValidationError{Field: "flavor", Err: err}
}

func invalidMode(err error) error {
	return &ValidationError{Field: "mode", Err: err}
}

// IsUnknownFlavor reports whether err came from an unrecognized flavor tag.
func IsUnknownFlavor(err error) bool {
	return errors.Is(err, models.ErrUnknownFlavor)
}
