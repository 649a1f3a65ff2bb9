package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup of a record that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDateConflict marks a revenue entry whose date is already taken.
	ErrDateConflict = errors.New("an entry already exists for this date")

	// ErrNotArchivable marks an archive attempt on an unsettled obligation.
	ErrNotArchivable = errors.New("only settled records can be archived")
)

// validate is the shared validator for input structs.
var validate = validator.New()

// validateInput runs struct validation and wraps failures in ErrValidation.
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// validationErrorf builds a field-specific validation error.
func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
