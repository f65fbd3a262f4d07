package trade

import (
	"errors"
	"fmt"
)

// Domain errors for the deterministic trade engine.
var (
	// ErrInvalidInput marks caller mistakes that abort the operation.
	// It is surfaced to the user as a validation message; every concrete
	// validation error below wraps it.
	ErrInvalidInput = errors.New("invalid input")

	ErrNegativeValue       = fmt.Errorf("%w: product value must not be negative", ErrInvalidInput)
	ErrNoDestinations      = fmt.Errorf("%w: at least one destination country is required", ErrInvalidInput)
	ErrEmptyProductName    = fmt.Errorf("%w: product name is required", ErrInvalidInput)
	ErrUnknownDocumentType = fmt.Errorf("%w: unknown document type", ErrInvalidInput)
)
