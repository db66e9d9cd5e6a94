package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/name-hansel/kore-ai-api/internal/domains/orders/domain"
	"github.com/name-hansel/kore-ai-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("order validation failed")
	// ErrInvalidDate signals a capacity date that is missing or not a calendar date.
	ErrInvalidDate = errors.New("invalid capacity date")
)

// ValidationError lists every problem found in a payload.
type ValidationError struct {
	Problems []string
	// Cause is an optional sentinel that is also matched by errors.Is.
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidationFailed}
	}
	return []error{ErrValidationFailed, e.Cause}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCustomerID) ||
		errors.Is(err, domain.ErrEmptyAddress) ||
		errors.Is(err, domain.ErrEmptyCity) ||
		errors.Is(err, domain.ErrInvalidRegion) ||
		errors.Is(err, domain.ErrInvalidPincode) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// IsNonRetryable reports errors that will fail the same way on every attempt.
func IsNonRetryable(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, ports.ErrIdempotencyConflict) ||
		errors.Is(err, ports.ErrVersionConflict) ||
		errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, ports.ErrInvalidIdentifier)
}
