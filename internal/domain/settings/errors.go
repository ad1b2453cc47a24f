package settings

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidKey      = errors.New("setting keys must match [a-z0-9_]{1,64}")
	ErrValueTooLong    = errors.New("setting value is too long")
)
