package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the stores, the services and the HTTP gateway.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMissing       = errors.New("token is missing")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrNotFound           = errors.New("not found")
)

// Validation errors. Each one wraps ErrInvalidInput.
var (
	ErrEmptyUsername    = fmt.Errorf("%w: username is required", ErrInvalidInput)
	ErrEmptyPassword    = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	ErrUsernameTooLong  = fmt.Errorf("%w: username too long (max %d characters)", ErrInvalidInput, MaxUsernameLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password too long (max %d bytes)", ErrInvalidInput, MaxPasswordBytes)
	ErrInvalidKind      = fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrNegativeAmount   = fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	ErrEmptyCategory    = fmt.Errorf("%w: category is required", ErrInvalidInput)
	ErrCategoryTooLong  = fmt.Errorf("%w: category too long (max %d characters)", ErrInvalidInput, MaxCategoryLength)
	ErrDescTooLong      = fmt.Errorf("%w: description too long (max %d characters)", ErrInvalidInput, MaxDescriptionLength)
	ErrInvalidDate      = fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
)

// IsAuthError reports whether err is one of the errors that end in an
// authentication failure for the caller.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenInvalid)
}
