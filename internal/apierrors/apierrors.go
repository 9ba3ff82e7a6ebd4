package apierrors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// WhatsApp linking workflow failure kinds. Each maps to exactly one
	// user-facing message in the handlers layer.
	ErrInvalidPhone           = errors.New("invalid phone number")
	ErrPhoneAlreadyLinked     = errors.New("phone number already linked to another account")
	ErrRateLimited            = errors.New("too many code requests")
	ErrDeliveryFailed         = errors.New("message delivery failed")
	ErrNoPendingCode          = errors.New("no pending verification code")
	ErrCodeExpired            = errors.New("verification code expired")
	ErrTooManyAttempts        = errors.New("too many verification attempts")
	ErrIncorrectCode          = errors.New("incorrect verification code")
	ErrMessengerNotConfigured = errors.New("messenger not configured")
)
