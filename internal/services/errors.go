package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the collaboration core. Handlers map these onto HTTP
// responses; services return them wrapped with context via fmt.Errorf and %w.
var (
	ErrDenied          = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateInvite = errors.New("invitation already pending for this email")
	ErrExpired         = errors.New("invitation has expired")
	ErrWrongRecipient  = errors.New("invitation is addressed to a different email")
	ErrAlreadyMember   = errors.New("user is already a member of this project")
	ErrQuotaExceeded   = errors.New("usage quota exceeded")
	ErrValidation      = errors.New("validation failed")
)

// validationf wraps ErrValidation with a formatted message.
func validationf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, v...)...)
}
