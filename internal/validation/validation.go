package validation

import (
	"errors"
	"fmt"
)

var ErrValidationFailed = errors.New("validation failed")

func NewValidationFailedError(reason string) error {
	return fmt.Errorf("%w: %v", ErrValidationFailed, reason)
}

const minPasswordLength = 8

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationFailedError(fmt.Sprintf("password must have at least %v characters", minPasswordLength))
	}
	return nil
}
