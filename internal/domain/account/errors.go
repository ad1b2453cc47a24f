package account

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidInput       = errors.New("invalid input")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
)

// LockedError is returned by Login while the attempt limit is exceeded.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrAccountLocked, e.RetryAfter.Round(time.Second))
}

func (e *LockedError) Unwrap() error {
	return ErrAccountLocked
}
